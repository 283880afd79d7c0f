package nomendex

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrTodoTitleRequired = errors.New("todo title is required")
	ErrInvalidTodo       = errors.New("invalid todo")
)

// TodoStore keeps one markdown file per todo in the todos directory. The fields live in
// YAML frontmatter and the description is the markdown body.
type TodoStore struct {
	config      DataConfig
	rootManager *RootManager
	mu          sync.Mutex
	now         func() time.Time
}

// NewTodoStore creates a TodoStore over the todos directory of the data directory.
func NewTodoStore(rootManager *RootManager, config DataConfig) *TodoStore {
	return &TodoStore{
		config:      config,
		rootManager: rootManager,
		now:         time.Now,
	}
}

// Initialize makes sure the todos directory exists.
func (ts *TodoStore) Initialize() error {
	if err := ts.rootManager.CreateDirectoryIfNotExists(ts.config.TodosDirectory); err != nil {
		return fmt.Errorf("error creating todos directory %s: %w", ts.config.TodosDirectory, err)
	}
	return nil
}

// List returns all todos, oldest first. Files that cannot be parsed are logged and skipped.
func (ts *TodoStore) List() ([]Todo, error) {
	if !ts.rootManager.FileExists(ts.config.TodosDirectory) {
		return nil, nil
	}

	results, err := ts.rootManager.Scan(ts.config.TodosDirectory, func(p string, d fs.DirEntry) bool {
		return !d.IsDir() && strings.HasSuffix(d.Name(), ".md")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan todos: %w", err)
	}

	todos := make([]Todo, 0, len(results))
	for _, result := range results {
		todo, err := ts.readTodo(result.Path)
		if err != nil {
			log.Printf("Skipping todo %s: %v", result.Path, err)
			continue
		}
		todos = append(todos, todo)
	}

	slices.SortStableFunc(todos, func(a, b Todo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return todos, nil
}

// Get returns the todo with the given id.
func (ts *TodoStore) Get(id string) (Todo, error) {
	p, ok := ts.todoPath(id)
	if !ok || !ts.rootManager.FileExists(p) {
		return Todo{}, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	return ts.readTodo(p)
}

// Create validates input and stores a new todo with a fresh id.
func (ts *TodoStore) Create(input NewTodo) (Todo, error) {
	if err := input.Validate(); err != nil {
		return Todo{}, err
	}

	now := ts.now().UTC().Truncate(time.Second)
	todo := Todo{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		Project:     input.Project,
		Tags:        input.Tags,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if err := ts.writeTodo(todo); err != nil {
		return Todo{}, err
	}

	return todo, nil
}

// SetArchived archives or restores a todo.
func (ts *TodoStore) SetArchived(id string, archived bool) (Todo, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	todo, err := ts.Get(id)
	if err != nil {
		return Todo{}, err
	}

	if todo.Archived == archived {
		return todo, nil
	}

	todo.Archived = archived
	todo.UpdatedAt = ts.now().UTC().Truncate(time.Second)
	if err := ts.writeTodo(todo); err != nil {
		return Todo{}, err
	}

	return todo, nil
}

// todoPath maps an id to its file, rejecting ids that are not a single path element.
func (ts *TodoStore) todoPath(id string) (string, bool) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", false
	}
	return path.Join(ts.config.TodosDirectory, id+".md"), true
}

// todoFrontmatter is the on-disk form of a todo's fields.
type todoFrontmatter struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Status    TodoStatus `yaml:"status"`
	Project   string     `yaml:"project,omitempty"`
	Tags      []string   `yaml:"tags,omitempty"`
	Priority  Priority   `yaml:"priority,omitempty"`
	DueDate   string     `yaml:"due_date,omitempty"`
	Archived  bool       `yaml:"archived,omitempty"`
	CreatedAt string     `yaml:"created_at"`
	UpdatedAt string     `yaml:"updated_at"`
}

func (ts *TodoStore) writeTodo(todo Todo) error {
	p, ok := ts.todoPath(todo.ID)
	if !ok {
		return fmt.Errorf("%w: bad id %q", ErrInvalidTodo, todo.ID)
	}

	fm, err := yaml.Marshal(todoFrontmatter{
		ID:        todo.ID,
		Title:     todo.Title,
		Status:    todo.Status,
		Project:   todo.Project,
		Tags:      todo.Tags,
		Priority:  todo.Priority,
		DueDate:   todo.DueDate,
		Archived:  todo.Archived,
		CreatedAt: todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt: todo.UpdatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal todo %s: %w", todo.ID, err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter + "\n")
	b.Write(fm)
	b.WriteString(frontmatterDelimiter + "\n")
	if todo.Description != "" {
		b.WriteString("\n" + todo.Description + "\n")
	}

	if err := ts.rootManager.WriteString(p, b.String()); err != nil {
		return fmt.Errorf("failed to save todo %s: %w", todo.ID, err)
	}

	return nil
}

func (ts *TodoStore) readTodo(p string) (Todo, error) {
	content, err := ts.rootManager.ReadFile(p)
	if err != nil {
		return Todo{}, fmt.Errorf("failed to read todo: %w", err)
	}

	fm, body := splitFrontmatter(string(content))
	if fm == "" {
		return Todo{}, fmt.Errorf("%w: missing frontmatter", ErrInvalidTodo)
	}

	metadata, err := parseFrontmatter(fm)
	if err != nil {
		return Todo{}, fmt.Errorf("%w: %v", ErrInvalidTodo, err)
	}

	todo := Todo{
		ID:          metaString(metadata, "id"),
		Title:       metaString(metadata, "title"),
		Description: strings.TrimSpace(body),
		Status:      TodoStatus(metaString(metadata, "status")),
		Project:     metaString(metadata, "project"),
		Tags:        metaStrings(metadata, "tags"),
		Priority:    Priority(metaString(metadata, "priority")),
		DueDate:     metaString(metadata, "due_date"),
		Archived:    metaBool(metadata, "archived"),
		CreatedAt:   metaTime(metadata, "created_at"),
		UpdatedAt:   metaTime(metadata, "updated_at"),
	}

	if todo.ID == "" {
		todo.ID = strings.TrimSuffix(path.Base(p), ".md")
	}
	if todo.Status == "" {
		todo.Status = StatusTodo
	}
	if todo.Title == "" {
		return Todo{}, ErrTodoTitleRequired
	}

	return todo, nil
}

var frontmatterMarkdown = goldmark.New(goldmark.WithExtensions(meta.Meta))

// parseFrontmatter parses a frontmatter block with goldmark-meta.
func parseFrontmatter(frontmatter string) (map[string]any, error) {
	ctx := parser.NewContext()
	frontmatterMarkdown.Parser().Parse(text.NewReader([]byte(frontmatter)), parser.WithContext(ctx))
	return meta.TryGet(ctx)
}

func metaString(metadata map[string]any, key string) string {
	switch v := metadata[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func metaStrings(metadata map[string]any, key string) []string {
	switch v := metadata[key].(type) {
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				values = append(values, s)
			}
		}
		return values
	case string:
		var values []string
		for _, item := range strings.Split(v, ",") {
			if s := strings.TrimSpace(item); s != "" {
				values = append(values, s)
			}
		}
		return values
	}
	return nil
}

func metaBool(metadata map[string]any, key string) bool {
	switch v := metadata[key].(type) {
	case bool:
		return v
	case string:
		v = strings.ToLower(strings.TrimSpace(v))
		return v == "true" || v == "yes"
	}
	return false
}

func metaTime(metadata map[string]any, key string) time.Time {
	if t, ok := metadata[key].(time.Time); ok {
		return t
	}
	t, err := time.Parse(time.RFC3339, metaString(metadata, key))
	if err != nil {
		return time.Time{}
	}
	return t
}
