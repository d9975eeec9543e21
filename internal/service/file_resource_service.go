package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"course-share-server/internal/model"
	"course-share-server/internal/ports"
	"course-share-server/internal/util"

	"github.com/google/uuid"
)

type FileResourceService struct {
	fileRepository   ports.FileResourceRepositoryInterface
	courseRepository ports.CourseRepositoryInterface
	storage          ports.S3Storage
	ttl              time.Duration
}

func NewFileResourceService(
	fileRepository ports.FileResourceRepositoryInterface,
	courseRepository ports.CourseRepositoryInterface,
	storage ports.S3Storage,
	ttl time.Duration,
) *FileResourceService {
	return &FileResourceService{
		fileRepository:   fileRepository,
		courseRepository: courseRepository,
		storage:          storage,
		ttl:              ttl,
	}
}

// CreateFile регистрирует метаданные файла курса и возвращает pre-signed PUT
// URL, по которому клиент загружает содержимое напрямую в объектное хранилище.
func (s *FileResourceService) CreateFile(ctx context.Context, courseCode, ownerUUID, filename, mimeType string) (*model.FileResource, string, error) {
	if filename == "" {
		return nil, "", fmt.Errorf("[FileService] имя файла обязательно")
	}

	course, err := s.courseRepository.FindByCode(ctx, courseCode)
	if err != nil {
		return nil, "", err
	}

	file := &model.FileResource{
		UUID:       uuid.New().String(),
		CourseUUID: course.UUID,
		OwnerUUID:  ownerUUID,
		Filename:   filename,
		MimeType:   mimeType,
	}
	file.StoragePath = fmt.Sprintf("courses/%s/%s/%s", course.UUID, file.UUID, filename)

	putURL, err := s.storage.GeneratePresignedPutURL(ctx, file.StoragePath, s.ttl)
	if err != nil {
		return nil, "", util.LogError("[FileService] не удалось сгенерировать URL загрузки", err)
	}

	if err := s.fileRepository.Create(ctx, file); err != nil {
		return nil, "", util.LogError("[FileService] не удалось сохранить метаданные файла", err)
	}

	log.Printf("[FileService] файл %s зарегистрирован для курса %s", filename, courseCode)
	return file, putURL, nil
}

// GetDownloadURL : метаданные файла вместе с pre-signed ссылкой на скачивание
func (s *FileResourceService) GetDownloadURL(ctx context.Context, fileUUID string) (*model.FileResourceWithURL, error) {
	file, err := s.fileRepository.FindByUUID(ctx, fileUUID)
	if err != nil {
		return nil, err
	}

	getURL, err := s.storage.GeneratePresignedGetURL(ctx, file.StoragePath, s.ttl)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось сгенерировать URL скачивания", err)
	}

	return &model.FileResourceWithURL{
		FileResource: *file,
		PresignedURL: getURL,
	}, nil
}

func (s *FileResourceService) ListByCourse(ctx context.Context, courseCode string) ([]*model.FileResource, error) {
	course, err := s.courseRepository.FindByCode(ctx, courseCode)
	if err != nil {
		return nil, err
	}

	return s.fileRepository.ListByCourse(ctx, course.UUID)
}

// DeleteFile удаляет объект из хранилища и метаданные. Удалять файл может
// только его владелец.
func (s *FileResourceService) DeleteFile(ctx context.Context, fileUUID, requesterUUID string) error {
	file, err := s.fileRepository.FindByUUID(ctx, fileUUID)
	if err != nil {
		return err
	}

	if file.OwnerUUID != requesterUUID {
		return fmt.Errorf("[FileService] файл принадлежит другому пользователю")
	}

	if err := s.storage.DeleteObject(ctx, file.StoragePath); err != nil {
		return util.LogError("[FileService] не удалось удалить объект из хранилища", err)
	}

	return s.fileRepository.Delete(ctx, fileUUID)
}
