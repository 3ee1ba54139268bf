package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courseplatform/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

// rdb может быть nil (тесты) — тогда работаем без кеша
func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

// === КЕШИРУЕМ СПИСОК КУРСОВ ===
func (r *CourseRepository) List(ctx context.Context, search, difficulty string, limit, offset int) ([]domain.Course, int64, error) {
	key := fmt.Sprintf("courses:list:%s:%s:%d:%d", search, difficulty, limit, offset)

	// 1. Читаем из кеша
	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, key).Result()
		if err == nil {
			var result struct {
				Courses []domain.Course
				Total   int64
			}
			if json.Unmarshal([]byte(val), &result) == nil {
				return result.Courses, result.Total, nil
			}
		}
	}

	// 2. Читаем из БД (если нет в кеше). Наружу отдаём только опубликованные
	var courses []domain.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("status = ?", domain.StatusPublished)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at desc").Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	// 3. Пишем в кеш на 10 минут
	if r.rdb != nil {
		cacheData := struct {
			Courses []domain.Course
			Total   int64
		}{courses, total}

		if data, err := json.Marshal(cacheData); err == nil {
			r.rdb.Set(ctx, key, data, 10*time.Minute)
		}
	}

	return courses, total, nil
}

// === КЕШИРУЕМ ОДИН КУРС (ПОЛНЫЙ АГРЕГАТ) ===
func (r *CourseRepository) GetWithContent(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	key := "course:detail:" + id.String()

	// 1. Кеш
	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, key).Result()
		if err == nil {
			var c domain.Course
			if json.Unmarshal([]byte(val), &c) == nil {
				return &c, nil
			}
		}
	}

	// 2. БД: уроки по order_index, ресурсы и вопросы тоже упорядочены
	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Lessons.Resources", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Lessons.Quizzes").
		Preload("Lessons.Quizzes.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем в кеш на 1 час
	if r.rdb != nil {
		if data, err := json.Marshal(course); err == nil {
			r.rdb.Set(ctx, key, data, 1*time.Hour)
		}
	}

	return &course, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	return &course, err
}

func (r *CourseRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Where("created_by = ?", userID).
		Order("created_at desc").
		Find(&courses).Error
	return courses, err
}

// ID генерим на стороне приложения, а не default'ом БД

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CourseRepository) CreateLesson(ctx context.Context, lesson *domain.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(lesson).Error
}

// Квиз пишется вместе с вопросами (gorm создаст их каскадом)
func (r *CourseRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == uuid.Nil {
			quiz.Questions[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *CourseRepository) CreateResources(ctx context.Context, resources []domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	for i := range resources {
		if resources[i].ID == uuid.Nil {
			resources[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&resources).Error
}

func (r *CourseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CourseStatus) error {
	err := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return err
	}
	// Инвалидируем строго после записи: конкурентный GetWithContent между
	// Del и Update мог бы закешировать старый статус на час
	r.invalidateDetail(ctx, id)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Select("Lessons").Delete(&domain.Course{ID: id}).Error
	if err != nil {
		return err
	}
	r.invalidateDetail(ctx, id)
	return nil
}

func (r *CourseRepository) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&domain.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}).Error
}

func (r *CourseRepository) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Списки инвалидируются по TTL (10 минут), детали чистим явно
func (r *CourseRepository) invalidateDetail(ctx context.Context, id uuid.UUID) {
	if r.rdb != nil {
		r.rdb.Del(ctx, "course:detail:"+id.String())
	}
}
