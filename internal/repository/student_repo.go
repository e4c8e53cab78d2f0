package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-api-starter/internal/database"
	"go-api-starter/internal/model"
	"go-api-starter/pkg/apierror"
)

type StudentRepository struct {
	db *database.DB
}

func NewStudentRepository(db *database.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, student_number, name, grade, major, class_name, created_at, updated_at`

func scanStudent(row *sql.Row) (model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.StudentNumber, &s.Name, &s.Grade, &s.Major,
		&s.ClassName, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (model.Student, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		r.db.Rebind(`SELECT `+studentColumns+` FROM students WHERE id = $1`), id)

	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, apierror.New("NOT_FOUND", "student not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.Student{}, fmt.Errorf("find student by id: %w", err)
	}
	return s, nil
}

func (r *StudentRepository) ExistsByNumber(ctx context.Context, studentNumber string) (bool, error) {
	var exists bool
	err := r.db.SQL.QueryRowContext(ctx,
		r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM students WHERE student_number = $1)`),
		strings.TrimSpace(studentNumber)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check student number exists: %w", err)
	}
	return exists, nil
}

func (r *StudentRepository) Create(ctx context.Context, s model.Student) error {
	_, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO students (id, student_number, name, grade, major, class_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`),
		s.ID, s.StudentNumber, s.Name, s.Grade, s.Major, s.ClassName, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, s model.Student) error {
	res, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`UPDATE students SET student_number = $2, name = $3, grade = $4, major = $5,
		 class_name = $6, updated_at = $7 WHERE id = $1`),
		s.ID, s.StudentNumber, s.Name, s.Grade, s.Major, s.ClassName, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireRowAffected(res, "student not found", s.ID)
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM students WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireRowAffected(res, "student not found", id)
}

func (r *StudentRepository) List(ctx context.Context, offset int, limit int) ([]model.Student, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		r.db.Rebind(`SELECT `+studentColumns+` FROM students ORDER BY student_number LIMIT $1 OFFSET $2`),
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := make([]model.Student, 0)
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.StudentNumber, &s.Name, &s.Grade, &s.Major,
			&s.ClassName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}
