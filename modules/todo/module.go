package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/karimd18/maxiphy-todo-app/events"
	"github.com/karimd18/maxiphy-todo-app/modules/auth"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TodoModule provides todo management services.
type TodoModule struct {
	db       *gorm.DB
	service  *Service
	authPort auth.AuthPort
	eventBus mono.EventBus
	dbPath   string
}

// Compile-time interface checks.
var _ mono.Module = (*TodoModule)(nil)
var _ mono.ServiceProviderModule = (*TodoModule)(nil)
var _ mono.DependentModule = (*TodoModule)(nil)
var _ mono.EventEmitterModule = (*TodoModule)(nil)
var _ mono.HealthCheckableModule = (*TodoModule)(nil)

// NewModule creates a new TodoModule.
func NewModule() *TodoModule {
	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "todos.db"
	}
	return &TodoModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// Dependencies returns the list of module dependencies.
func (m *TodoModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TodoModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// SetEventBus receives the application event bus.
func (m *TodoModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TodoModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TodoCreatedV1.ToBase(),
		events.TodoUpdatedV1.ToBase(),
		events.TodoDeletedV1.ToBase(),
	}
}

// Start initializes the todo module.
func (m *TodoModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var users UserDirectory
	if m.authPort != nil {
		users = authUserDirectory{port: m.authPort}
	}
	m.service = NewService(repo, users)

	log.Printf("[todo] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TodoModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[todo] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TodoModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-todo", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-todo", json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register get-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-todo", json.Unmarshal, json.Marshal, m.handleUpdate,
	); err != nil {
		return fmt.Errorf("failed to register update-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-todo", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-todos", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list-todos service: %w", err)
	}

	log.Printf("[todo] Registered services: create-todo, get-todo, update-todo, delete-todo, list-todos")
	return nil
}

// handleCreate handles todo creation.
func (m *TodoModule) handleCreate(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	t, err := m.service.Create(ctx, &req)
	if err != nil {
		return TodoResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TodoCreatedEvent{
			TodoID:      t.ID,
			UserID:      t.UserID,
			Description: t.Description,
			Priority:    string(t.Priority),
			CreatedAt:   t.CreatedAt,
		}
		if err := events.TodoCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; the write already succeeded.
			log.Printf("[todo] Warning: failed to publish TodoCreated event for todo %s: %v", t.ID, err)
		}
	}

	return toTodoResponse(t), nil
}

// handleGet handles fetching a single owned todo.
func (m *TodoModule) handleGet(ctx context.Context, req GetTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	t, err := m.service.GetOne(ctx, req.UserID, req.TodoID)
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

// handleUpdate handles partial todo updates.
func (m *TodoModule) handleUpdate(ctx context.Context, req UpdateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	t, err := m.service.Update(ctx, &req)
	if err != nil {
		return TodoResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TodoUpdatedEvent{
			TodoID:    t.ID,
			UserID:    t.UserID,
			Status:    t.Status.API(),
			Pinned:    t.Pinned,
			UpdatedAt: t.UpdatedAt,
		}
		if err := events.TodoUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[todo] Warning: failed to publish TodoUpdated event for todo %s: %v", t.ID, err)
		}
	}

	return toTodoResponse(t), nil
}

// handleDelete handles todo deletion.
func (m *TodoModule) handleDelete(ctx context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	if err := m.service.Remove(ctx, req.UserID, req.TodoID); err != nil {
		return DeleteTodoResponse{Deleted: false}, err
	}

	if m.eventBus != nil {
		event := events.TodoDeletedEvent{
			TodoID:    req.TodoID,
			UserID:    req.UserID,
			DeletedAt: time.Now(),
		}
		if err := events.TodoDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[todo] Warning: failed to publish TodoDeleted event for todo %s: %v", req.TodoID, err)
		}
	}

	return DeleteTodoResponse{Deleted: true}, nil
}

// handleList handles list requests.
func (m *TodoModule) handleList(ctx context.Context, req ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	items, meta, err := m.service.List(ctx, req.UserID, req.Params)
	if err != nil {
		return ListTodosResponse{}, err
	}

	resp := ListTodosResponse{
		Items: make([]TodoResponse, 0, len(items)),
		Meta:  *meta,
	}
	for i := range items {
		resp.Items = append(resp.Items, toTodoResponse(&items[i]))
	}
	return resp, nil
}

// authUserDirectory adapts the auth port to the UserDirectory the service
// needs for owner existence checks.
type authUserDirectory struct {
	port auth.AuthPort
}

func (d authUserDirectory) ValidateUser(ctx context.Context, userID string) (bool, error) {
	return d.port.ValidateUser(ctx, userID)
}
