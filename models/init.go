package models

import "nikodex/db"

// Migrate creates or updates every table, parents first
func Migrate() error {
	return db.Instance.AutoMigrate(
		&User{},
		&Niko{},
		&Ability{},
		&DailyPick{},
		&Post{},
		&Comment{},
		&Submission{},
		&SubmitUser{},
		&Blog{},
		&Banner{},
	)
}
