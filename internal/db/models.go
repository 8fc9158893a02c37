package db

import (
	"encoding/json"
	"time"
)

// ContentTranslation maps content_translations. One row per content item,
// language and content type.
type ContentTranslation struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	TranslationUUID  string          `gorm:"column:translation_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	ContentID        string          `gorm:"column:content_id;type:text;not null;uniqueIndex:content_translations_key,priority:1"`
	Language         string          `gorm:"column:language;type:text;not null;uniqueIndex:content_translations_key,priority:2"`
	ContentType      string          `gorm:"column:content_type;type:text;not null;uniqueIndex:content_translations_key,priority:3"`
	TranslatedFields json.RawMessage `gorm:"column:translated_fields;type:jsonb;not null"`
	ProviderName     string          `gorm:"column:provider_name;type:text;not null;default:''"`
	CreatedAt        time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (ContentTranslation) TableName() string { return "content_translations" }

// Job maps jobs. Rows are written by the job import and admin layers.
type Job struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ContentID   string    `gorm:"column:content_id;type:text;not null;unique"`
	Source      string    `gorm:"column:source;type:text;not null"`
	ExternalID  *string   `gorm:"column:external_id;type:text"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Description string    `gorm:"column:description;type:text;not null;default:''"`
	Company     string    `gorm:"column:company;type:text;not null;default:''"`
	Location    string    `gorm:"column:location;type:text;not null;default:''"`
	Category    string    `gorm:"column:category;type:text;not null;default:''"`
	SourceLang  string    `gorm:"column:source_lang;type:text;not null;default:''"`
	IsFeatured  bool      `gorm:"column:is_featured;not null;default:false"`
	IsUrgent    bool      `gorm:"column:is_urgent;not null;default:false"`
	Status      string    `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Job) TableName() string { return "jobs" }

// Deal maps deals, aggregated from affiliate feeds.
type Deal struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ContentID   string     `gorm:"column:content_id;type:text;not null;unique"`
	Source      string     `gorm:"column:source;type:text;not null"`
	ExternalID  *string    `gorm:"column:external_id;type:text"`
	Title       string     `gorm:"column:title;type:text;not null"`
	Description string     `gorm:"column:description;type:text;not null;default:''"`
	Merchant    string     `gorm:"column:merchant;type:text;not null;default:''"`
	Category    string     `gorm:"column:category;type:text;not null;default:''"`
	SourceLang  string     `gorm:"column:source_lang;type:text;not null;default:''"`
	IsFeatured  bool       `gorm:"column:is_featured;not null;default:false"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (Deal) TableName() string { return "deals" }

// BlogPost maps blog_posts.
type BlogPost struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ContentID   string     `gorm:"column:content_id;type:text;not null;unique"`
	Slug        string     `gorm:"column:slug;type:text;not null;unique"`
	Title       string     `gorm:"column:title;type:text;not null"`
	Excerpt     string     `gorm:"column:excerpt;type:text;not null;default:''"`
	Content     string     `gorm:"column:content;type:text;not null;default:''"`
	Author      string     `gorm:"column:author;type:text;not null;default:''"`
	Category    string     `gorm:"column:category;type:text;not null;default:''"`
	SourceLang  string     `gorm:"column:source_lang;type:text;not null;default:''"`
	IsFeatured  bool       `gorm:"column:is_featured;not null;default:false"`
	Status      string     `gorm:"column:status;type:text;not null;default:draft"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (BlogPost) TableName() string { return "blog_posts" }

func autoMigrateModels() []any {
	return []any{
		&Job{},
		&Deal{},
		&BlogPost{},
		&ContentTranslation{},
	}
}
