package model

import "time"

type FileResource struct {
	UUID        string    `db:"uuid" json:"uuid"`
	CourseUUID  string    `db:"course_uuid" json:"course_uuid"`
	OwnerUUID   string    `db:"owner_uuid" json:"owner_uuid"`
	Filename    string    `db:"filename" json:"filename"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	StoragePath string    `db:"storage_path" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FileResourceWithURL : метаданные файла вместе с pre-signed ссылкой на скачивание
type FileResourceWithURL struct {
	FileResource
	PresignedURL string `json:"presigned_url"`
}
