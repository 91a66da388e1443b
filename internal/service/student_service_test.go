package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]*models.Student
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var list []models.Student
	for _, s := range m.students {
		list = append(list, *s)
	}
	return list, len(list), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for _, s := range m.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = map[string]*models.Student{}
	}
	clone := *student
	m.students[student.ID] = &clone
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	clone := *student
	m.students[student.ID] = &clone
	return nil
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name: "Ana", Email: "ana@example.com", Age: 25, Weight: 62.5, Height: 1.68,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, "ana@example.com", student.Email)
}

func TestStudentServiceCreateWithoutMeasurements(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name: "Jane Roe", Email: "jane@example.com", Age: 30,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Zero(t, student.Weight)
	assert.Zero(t, student.Height)
}

func TestStudentServiceCreateRejectsNegativeMeasurements(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Name: "Jane Roe", Email: "jane@example.com", Age: 30, Weight: -1,
	})
	require.Error(t, err)
	assert.Equal(t, "validation fails", appErrors.FromError(err).Message)
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"stu-1": {ID: "stu-1", Name: "Ana", Email: "ana@example.com"},
	}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		Name: "Other", Email: "ana@example.com", Age: 30, Weight: 80, Height: 1.8,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Student already exists", appErr.Message)
}

func TestStudentServiceCreateValidatesPayload(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "Ana", Email: "ana@example.com"})
	require.Error(t, err)
	assert.Equal(t, "validation fails", appErrors.FromError(err).Message)
}

func TestStudentServiceUpdatePartial(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"stu-1": {ID: "stu-1", Name: "Ana", Email: "ana@example.com", Age: 25, Weight: 62.5, Height: 1.68},
	}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	weight := 64.0
	student, err := svc.Update(context.Background(), "stu-1", UpdateStudentRequest{Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, 64.0, student.Weight)
	assert.Equal(t, "Ana", student.Name)
	assert.Equal(t, 25, student.Age)
}

func TestStudentServiceUpdateNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{students: map[string]*models.Student{}}, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateStudentRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Invalid student", appErr.Message)
}

func TestStudentServiceUpdateEmailTaken(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"stu-1": {ID: "stu-1", Name: "Ana", Email: "ana@example.com"},
		"stu-2": {ID: "stu-2", Name: "Bia", Email: "bia@example.com"},
	}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	email := "bia@example.com"
	_, err := svc.Update(context.Background(), "stu-1", UpdateStudentRequest{Email: &email})
	require.Error(t, err)
	assert.Equal(t, "Student already exists", appErrors.FromError(err).Message)
}

func TestStudentServiceList(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"stu-1": {ID: "stu-1", Name: "Ana", Email: "ana@example.com"},
	}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 20, pagination.PageSize)
}
