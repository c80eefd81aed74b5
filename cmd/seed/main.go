package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"gofiber-todo/application/serviceimpl"
	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
	"gofiber-todo/domain/repositories"
	"gofiber-todo/domain/services"
	"gofiber-todo/infrastructure/postgres"
	"gofiber-todo/pkg/config"
	"gofiber-todo/pkg/logger"
)

type categorySeed struct {
	Name        string
	Description string
	Color       string
}

var demoCategories = []categorySeed{
	{"Work", "Professional tasks and projects", "#3B82F6"},
	{"Personal", "Personal tasks and activities", "#22C55E"},
	{"Shopping", "Shopping lists and purchases", "#F97316"},
	{"Health", "Health and fitness related tasks", "#EF4444"},
	{"Learning", "Educational and skill development tasks", "#8B5CF6"},
	{"Home", "Household chores and maintenance", "#06B6D4"},
}

var taskTitles = []string{
	"Review pull requests",
	"Prepare weekly report",
	"Buy groceries for the week",
	"Book dentist appointment",
	"Read two chapters of a book",
	"Clean the garage",
	"Plan weekend trip",
	"Renew gym membership",
	"Update project roadmap",
	"Call the insurance company",
	"Water the plants",
	"Write blog post draft",
}

func main() {
	email := flag.String("email", "demo@example.com", "demo user email")
	username := flag.String("username", "demo", "demo user username")
	password := flag.String("password", "password123", "demo user password")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{Level: "info", Format: "text", Output: "stdout"}); err != nil {
		fmt.Println("Failed to init logger:", err)
		os.Exit(1)
	}

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:    cfg.Database.Driver,
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		DBName:    cfg.Database.DBName,
		SSLMode:   cfg.Database.SSLMode,
		SQLiteDSN: cfg.Database.SQLiteDSN,
		LogLevel:  "silent",
	})
	if err != nil {
		logger.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	userService := serviceimpl.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	categoryService := serviceimpl.NewCategoryService(categoryRepo, nil, nil)

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("  Seeding demo data")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	ctx := context.Background()

	user, err := ensureUser(ctx, userService, userRepo, *email, *username, *password)
	if err != nil {
		logger.Error("Failed to seed user", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\nUser: %s (%s)\n", user.Username, user.Email)

	categoryIDs, err := seedCategories(ctx, categoryService, user)
	if err != nil {
		logger.Error("Failed to seed categories", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Categories: %d\n", len(categoryIDs))

	created, err := seedTasks(ctx, taskRepo, user, categoryIDs, time.Now())
	if err != nil {
		logger.Error("Failed to seed tasks", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Tasks created: %d\n", created)
	fmt.Println("\n✅ Done")
}

func ensureUser(ctx context.Context, userService services.UserService, userRepo repositories.UserRepository, email, username, password string) (*models.User, error) {
	user, err := userService.Register(ctx, &dto.CreateUserRequest{
		Email:     email,
		Username:  username,
		Password:  password,
		FirstName: "Demo",
		LastName:  "User",
	})
	if err == nil {
		return user, nil
	}
	if errors.Is(err, services.ErrEmailTaken) {
		return userRepo.GetByEmail(ctx, email)
	}
	return nil, err
}

// seedCategories ข้าม category ที่ชื่อซ้ำของ user เดิม
func seedCategories(ctx context.Context, categoryService services.CategoryService, user *models.User) ([]uint, error) {
	existing, err := categoryService.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]uint, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	ids := make([]uint, 0, len(demoCategories))
	for _, seed := range demoCategories {
		if id, ok := byName[seed.Name]; ok {
			ids = append(ids, id)
			continue
		}

		description := seed.Description
		category, err := categoryService.Create(ctx, user.ID, &dto.CreateCategoryRequest{
			Name:        seed.Name,
			Description: &description,
			Color:       seed.Color,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, category.ID)
	}
	return ids, nil
}

// seedTasks 3 ยังไม่เสร็จ, 2 เสร็จแล้ว, 2 high priority, 1 overdue, 1 due today
func seedTasks(ctx context.Context, taskRepo repositories.TaskRepository, user *models.User, categoryIDs []uint, now time.Time) (int, error) {
	rng := rand.New(rand.NewSource(now.UnixNano()))
	today := models.StartOfDay(now)

	states := []func(*models.Task){
		incomplete, incomplete, incomplete,
		completed(now), completed(now),
		highPriority, highPriority,
		overdue(today), dueToday(today),
	}

	for _, state := range states {
		task := fakeTask(rng, user.ID, now, today)
		state(task)

		if err := taskRepo.Create(ctx, task, pickCategories(rng, categoryIDs)); err != nil {
			return 0, err
		}
	}
	return len(states), nil
}

func fakeTask(rng *rand.Rand, userID uuid.UUID, now, today time.Time) *models.Task {
	task := &models.Task{
		UserID:    userID,
		Title:     taskTitles[rng.Intn(len(taskTitles))],
		Priority:  models.AllPriorities[rng.Intn(len(models.AllPriorities))],
		CreatedAt: now,
		UpdatedAt: now,
	}

	if rng.Intn(10) < 7 {
		description := "Seeded task: " + task.Title
		task.Description = &description
	}
	if rng.Intn(10) < 6 {
		due := today.AddDate(0, 0, rng.Intn(21)-7)
		task.DueDate = &due
	}
	return task
}

func incomplete(task *models.Task) {
	task.MarkIncomplete()
}

func completed(now time.Time) func(*models.Task) {
	return func(task *models.Task) {
		task.MarkCompleted(now.Add(-time.Duration(rand.Intn(14*24)) * time.Hour))
	}
}

func highPriority(task *models.Task) {
	task.Priority = models.PriorityHigh
}

func overdue(today time.Time) func(*models.Task) {
	return func(task *models.Task) {
		due := today.AddDate(0, 0, -(1 + rand.Intn(7)))
		task.DueDate = &due
		task.MarkIncomplete()
	}
}

func dueToday(today time.Time) func(*models.Task) {
	return func(task *models.Task) {
		due := today
		task.DueDate = &due
	}
}

func pickCategories(rng *rand.Rand, ids []uint) []uint {
	if len(ids) == 0 || rng.Intn(3) == 0 {
		return nil
	}
	picked := []uint{ids[rng.Intn(len(ids))]}
	if other := ids[rng.Intn(len(ids))]; other != picked[0] && rng.Intn(2) == 0 {
		picked = append(picked, other)
	}
	return picked
}
