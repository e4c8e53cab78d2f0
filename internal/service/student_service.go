package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-api-starter/internal/model"
	"go-api-starter/pkg/apierror"
)

type StudentStore interface {
	FindByID(ctx context.Context, id string) (model.Student, error)
	ExistsByNumber(ctx context.Context, studentNumber string) (bool, error)
	Create(ctx context.Context, s model.Student) error
	Update(ctx context.Context, s model.Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset int, limit int) ([]model.Student, error)
	Count(ctx context.Context) (int, error)
}

type StudentService struct {
	students StudentStore
}

func NewStudentService(students StudentStore) *StudentService {
	return &StudentService{students: students}
}

func (s *StudentService) Get(ctx context.Context, id string) (model.Student, error) {
	return s.students.FindByID(ctx, id)
}

func (s *StudentService) List(ctx context.Context, page int, limit int) ([]model.Student, int, error) {
	offset, limit := pageToOffset(page, limit)

	students, err := s.students.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.students.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (s *StudentService) Create(ctx context.Context, req model.CreateStudentRequest) (model.Student, error) {
	number := strings.TrimSpace(req.StudentNumber)
	name := strings.TrimSpace(req.Name)

	if number == "" || name == "" {
		return model.Student{}, apierror.New("BAD_REQUEST", "student_number and name are required", "", http.StatusBadRequest)
	}

	exists, err := s.students.ExistsByNumber(ctx, number)
	if err != nil {
		return model.Student{}, err
	}
	if exists {
		return model.Student{}, apierror.New("ALREADY_EXISTS", "student number already in use", number, http.StatusConflict)
	}

	now := time.Now().UTC()
	student := model.Student{
		ID:            uuid.NewString(),
		StudentNumber: number,
		Name:          name,
		Grade:         strings.TrimSpace(req.Grade),
		Major:         strings.TrimSpace(req.Major),
		ClassName:     strings.TrimSpace(req.ClassName),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (s *StudentService) Update(ctx context.Context, id string, req model.UpdateStudentRequest) (model.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return model.Student{}, err
	}

	if req.StudentNumber != nil {
		number := strings.TrimSpace(*req.StudentNumber)
		if number == "" {
			return model.Student{}, apierror.New("BAD_REQUEST", "student_number cannot be empty", "", http.StatusBadRequest)
		}
		if number != student.StudentNumber {
			exists, err := s.students.ExistsByNumber(ctx, number)
			if err != nil {
				return model.Student{}, err
			}
			if exists {
				return model.Student{}, apierror.New("ALREADY_EXISTS", "student number already in use", number, http.StatusConflict)
			}
			student.StudentNumber = number
		}
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.Student{}, apierror.New("BAD_REQUEST", "name cannot be empty", "", http.StatusBadRequest)
		}
		student.Name = name
	}
	if req.Grade != nil {
		student.Grade = strings.TrimSpace(*req.Grade)
	}
	if req.Major != nil {
		student.Major = strings.TrimSpace(*req.Major)
	}
	if req.ClassName != nil {
		student.ClassName = strings.TrimSpace(*req.ClassName)
	}

	student.UpdatedAt = time.Now().UTC()
	if err := s.students.Update(ctx, student); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	return s.students.Delete(ctx, id)
}
