package models

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" bson:"_id"`
	Title     string    `gorm:"size:255;not null" bson:"title"`
	Completed bool      `gorm:"not null;default:false" bson:"completed"`
	OwnerID   uint      `gorm:"index;not null" bson:"owner_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" bson:"-"`
}

// TaskPatch holds the fields of a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

// Apply copies the provided fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
