package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/notifier"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/stats"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type publishedEvent struct {
	userIDs   []uint64
	eventType string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) BroadcastToUsers(userIDs []uint64, eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userIDs: append([]uint64(nil), userIDs...), eventType: eventType})
}

func (p *recordingPublisher) last() publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return publishedEvent{}
	}
	return p.events[len(p.events)-1]
}

type fakeNotifier struct {
	mu        sync.Mutex
	failFor   map[string]bool
	reminders map[string][]models.Task
	daily     []stats.DailyReport
	weekly    []stats.WeeklyReport
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failFor: map[string]bool{}, reminders: map[string][]models.Task{}}
}

func (n *fakeNotifier) result(email, ok string) notifier.Result {
	if n.failFor[email] {
		return notifier.Result{Success: false, Message: "smtp: connection refused"}
	}
	return notifier.Result{Success: true, Message: ok}
}

func (n *fakeNotifier) SendTaskReminder(_ context.Context, to notifier.Recipient, tasks []models.Task) notifier.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders[to.Email] = tasks
	return n.result(to.Email, "Email sent successfully")
}

func (n *fakeNotifier) SendDailyReport(_ context.Context, to notifier.Recipient, report stats.DailyReport) notifier.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.daily = append(n.daily, report)
	return n.result(to.Email, "Report sent successfully")
}

func (n *fakeNotifier) SendWeeklyReport(_ context.Context, to notifier.Recipient, report stats.WeeklyReport) notifier.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.weekly = append(n.weekly, report)
	return n.result(to.Email, "Weekly report sent successfully")
}

// serviceSuite wires every service against one in-memory database and a
// shared clock that tests can move forward.
type serviceSuite struct {
	suite.Suite
	db  *gorm.DB
	now time.Time

	taskRepo    repository.TaskRepository
	updateRepo  repository.TaskUpdateRepository
	userRepo    repository.UserRepository
	courierRepo repository.CourierRepository

	events    *recordingPublisher
	notifier  *fakeNotifier
	denylist  *auth.MemoryDenylist
	tokens    *auth.TokenManager
	users     *UserService
	auth      *AuthService
	tasks     *TaskService
	couriers  *CourierService
	dashboard *DashboardService
	reports   *ReportService

	admin     *models.User
	employee  *models.User
	colleague *models.User
}

func (s *serviceSuite) SetupTest() {
	s.db = testutil.NewInMemoryDB(s.T())
	s.now = time.Now().UTC().Truncate(time.Second)

	s.taskRepo = repository.NewTaskRepository(s.db)
	s.updateRepo = repository.NewTaskUpdateRepository(s.db)
	s.userRepo = repository.NewUserRepository(s.db)
	s.courierRepo = repository.NewCourierRepository(s.db)

	s.events = &recordingPublisher{}
	s.notifier = newFakeNotifier()
	s.denylist = auth.NewMemoryDenylist()
	s.tokens = auth.NewTokenManager("test-secret", "task-tracker-test", time.Hour)

	s.users = NewUserService(s.userRepo)
	s.users.bcryptCost = bcrypt.MinCost
	s.auth = NewAuthService(s.userRepo, s.users, s.tokens, s.denylist)
	s.tasks = NewTaskService(s.taskRepo, s.updateRepo, s.userRepo, s.events)
	s.couriers = NewCourierService(s.courierRepo)
	s.dashboard = NewDashboardService(s.taskRepo, s.userRepo)
	s.reports = NewReportService(s.taskRepo, s.updateRepo, s.userRepo, s.notifier)
	s.setClock(s.now)

	s.admin = testutil.CreateUser(s.T(), s.db, "admin", models.RoleAdministrator)
	s.employee = testutil.CreateUser(s.T(), s.db, "employee", models.RoleEmployee)
	s.colleague = testutil.CreateUser(s.T(), s.db, "colleague", models.RoleEmployee)
}

func (s *serviceSuite) setClock(at time.Time) {
	s.now = at
	clock := func() time.Time { return at }
	s.tasks.now = clock
	s.couriers.now = clock
	s.dashboard.now = clock
	s.reports.now = clock
}

func (s *serviceSuite) adminActor() auth.Actor {
	return auth.Actor{UserID: s.admin.ID, Role: models.RoleAdministrator}
}

func (s *serviceSuite) employeeActor(u *models.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Role: models.RoleEmployee}
}

func (s *serviceSuite) dueIn(d time.Duration) *time.Time {
	due := s.now.Add(d)
	return &due
}

func (s *serviceSuite) createTask(title string, assigneeIDs ...uint64) *models.Task {
	task, err := s.tasks.CreateTask(CreateTaskInput{
		Title:       title,
		Priority:    models.TaskPriorityHigh,
		DueDate:     s.dueIn(48 * time.Hour),
		AssigneeIDs: assigneeIDs,
		CreatorID:   s.admin.ID,
	})
	s.Require().NoError(err)
	return task
}
