package requestresponse

import "course-share-server/internal/model"

// CreateFileRequest : регистрация файла курса перед загрузкой
type CreateFileRequest struct {
	Filename string `json:"filename" example:"lecture-01.pdf"`
	MimeType string `json:"mime_type" example:"application/pdf"`
}

// CreateFileResponse : метаданные файла и pre-signed URL для загрузки
type CreateFileResponse struct {
	Response struct {
		File   *model.FileResource `json:"file"`
		PutURL string              `json:"put_url"`
	} `json:"response"`
}

// FileResponse : метаданные файла со ссылкой на скачивание
type FileResponse struct {
	Response *model.FileResourceWithURL `json:"response"`
}

// FileListResponse : файлы курса
type FileListResponse struct {
	Response []*model.FileResource `json:"response"`
}
