package usecase

import (
	"context"

	"courseplatform/internal/domain"
	"courseplatform/internal/infrastructure/repository"

	"github.com/google/uuid"
)

type CourseUseCase struct {
	courseRepo *repository.CourseRepository
}

func NewCourseUseCase(cr *repository.CourseRepository) *CourseUseCase {
	return &CourseUseCase{courseRepo: cr}
}

func (uc *CourseUseCase) List(ctx context.Context, search, difficulty string, limit, offset int) ([]domain.Course, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.courseRepo.List(ctx, search, difficulty, limit, offset)
}

// Get отдаёт полный агрегат. Неопубликованные курсы видят только
// создатель и записанные на курс
func (uc *CourseUseCase) Get(ctx context.Context, courseID, userID uuid.UUID) (*domain.Course, error) {
	course, err := uc.courseRepo.GetWithContent(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.Status == domain.StatusPublished || course.CreatedBy == userID {
		return course, nil
	}

	enrolled, err := uc.courseRepo.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, domain.ErrAccessDenied
	}

	return course, nil
}

func (uc *CourseUseCase) MyCourses(ctx context.Context, userID uuid.UUID) ([]domain.Course, error) {
	return uc.courseRepo.ListByCreator(ctx, userID)
}

func (uc *CourseUseCase) Publish(ctx context.Context, courseID, userID uuid.UUID) error {
	return uc.setStatusAsOwner(ctx, courseID, userID, domain.StatusPublished)
}

func (uc *CourseUseCase) Archive(ctx context.Context, courseID, userID uuid.UUID) error {
	return uc.setStatusAsOwner(ctx, courseID, userID, domain.StatusArchived)
}

func (uc *CourseUseCase) Delete(ctx context.Context, courseID, userID uuid.UUID) error {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.CreatedBy != userID {
		return domain.ErrAccessDenied
	}
	return uc.courseRepo.Delete(ctx, courseID)
}

func (uc *CourseUseCase) Enroll(ctx context.Context, courseID, userID uuid.UUID) error {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.Status != domain.StatusPublished && course.CreatedBy != userID {
		return domain.ErrAccessDenied
	}

	if enrolled, err := uc.courseRepo.IsEnrolled(ctx, userID, courseID); err != nil {
		return err
	} else if enrolled {
		return nil // уже записан, идемпотентно
	}

	return uc.courseRepo.Enroll(ctx, userID, courseID)
}

func (uc *CourseUseCase) setStatusAsOwner(ctx context.Context, courseID, userID uuid.UUID, status domain.CourseStatus) error {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.CreatedBy != userID {
		return domain.ErrAccessDenied
	}
	return uc.courseRepo.UpdateStatus(ctx, courseID, status)
}
