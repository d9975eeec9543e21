package model

import "time"

type Course struct {
	UUID         string    `db:"uuid" json:"uuid"`
	CourseCode   string    `db:"course_code" json:"course_code"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	CreatorUUID  string    `db:"creator_uuid" json:"creator_uuid"`
	CategoryUUID string    `db:"category_uuid" json:"category_uuid"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Category struct {
	UUID      string    `db:"uuid" json:"uuid"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CourseCodeCounter : счётчик последовательных номеров курсов внутри префикса.
// LastNumber монотонно не убывает, выданные номера никогда не переиспользуются.
type CourseCodeCounter struct {
	Prefix     string `db:"prefix"`
	LastNumber int    `db:"last_number"`
}
