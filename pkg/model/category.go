package model

// Category groups posts by topic
type Category struct {
	ID    int    `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name"`
	Posts []Post `gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string {
	return "postcategories"
}
