package models

import (
	"errors"
	"regexp"
	"time"

	"nikodex/db"
	"nikodex/processing"
	"nikodex/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID             uint64     `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"type:varchar(32);index:uniq_username,unique;not null" json:"username"`
	Description    string     `gorm:"type:varchar(255)" json:"description"`
	HashedPass     string     `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin        bool       `gorm:"not null;default:false" json:"is_admin"`
	ProfilePicture *string    `gorm:"type:varchar(1024)" json:"-"`
	LastCommentAt  *time.Time `json:"-"`
}

const (
	maxUsernameLength    = 32
	maxPasswordLength    = 128
	maxDescriptionLength = 255
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,32}$`)

// UserChange holds the fields of a registration or profile update. Empty fields are left alone on update.
type UserChange struct {
	Username    string
	Password    string
	Description string
}

func ValidateUsername(username string) error {
	if username == "" {
		return invalid("username", "is required")
	}
	if len(username) > maxUsernameLength || !usernamePattern.MatchString(username) {
		return invalid("username", "must be 1 to 32 letters, digits or underscores")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return invalid("password", "is required")
	}
	if len(password) > maxPasswordLength {
		return invalid("password", "is too long")
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return invalid("description", "is required")
	}
	if len(description) > maxDescriptionLength {
		return invalid("description", "is too long")
	}
	return nil
}

func usernameTaken(tx *gorm.DB, username string, exceptID uint64) (bool, error) {
	var count int64
	err := tx.Model(&User{}).Where("username = ? AND id != ?", username, exceptID).Count(&count).Error
	return count > 0, err
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPass = string(hash)
	return nil
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPass), []byte(plainTextPassword)) == nil
}

func UserCreate(req UserChange) (u User, err error) {
	if err = ValidateUsername(req.Username); err != nil {
		return
	}
	if err = validatePassword(req.Password); err != nil {
		return
	}
	if err = validateDescription(req.Description); err != nil {
		return
	}
	taken, err := usernameTaken(db.Instance, req.Username, 0)
	if err != nil {
		return
	}
	if taken {
		return u, ErrConflict
	}
	u.Username = req.Username
	u.Description = req.Description
	if err = u.SetPassword(req.Password); err != nil {
		return
	}
	if err = db.Instance.Create(&u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

// UserLogin returns the user only when the password matches
func UserLogin(username, plainTextPassword string) (u User, success bool) {
	if db.Instance.First(&u, "username = ?", username).Error != nil {
		return User{}, false
	}
	if !u.CheckPassword(plainTextPassword) {
		return User{}, false
	}
	return u, true
}

func UserByID(id uint64) (u User, err error) {
	return u, first(db.Instance, &u, "id = ?", id)
}

func UserByUsername(username string) (u User, err error) {
	return u, first(db.Instance, &u, "username = ?", username)
}

func UserSearch(username string, page utils.Pagination) (users []User, err error) {
	if !page.Valid() {
		return nil, invalid("page", utils.ErrBadPagination.Error())
	}
	err = db.Instance.Where("username LIKE ?", likePattern(username)).
		Order("id").Offset(page.Offset()).Limit(page.Count).Find(&users).Error
	return
}

func UserCount() (count int64, err error) {
	err = db.Instance.Model(&User{}).Count(&count).Error
	return
}

func UserList() (users []User, err error) {
	err = db.Instance.Order("id").Find(&users).Error
	return
}

// Update applies the non-empty fields of req, re-validating each of them
func (u *User) Update(req UserChange) error {
	updates := map[string]any{}
	if req.Username != "" && req.Username != u.Username {
		if err := ValidateUsername(req.Username); err != nil {
			return err
		}
		taken, err := usernameTaken(db.Instance, req.Username, u.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		updates["username"] = req.Username
	}
	if req.Description != "" {
		if err := validateDescription(req.Description); err != nil {
			return err
		}
		updates["description"] = req.Description
	}
	if req.Password != "" {
		if err := validatePassword(req.Password); err != nil {
			return err
		}
		if err := u.SetPassword(req.Password); err != nil {
			return err
		}
		updates["hashed_pass"] = u.HashedPass
	}
	if len(updates) == 0 {
		return nil
	}
	if err := db.Instance.Model(u).Updates(updates).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	return db.Instance.First(u, u.ID).Error
}

func UserSetAdmin(username string, isAdmin bool) error {
	result := db.Instance.Model(&User{}).Where("username = ?", username).Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func UserResetPassword(username, plainTextPassword string) error {
	if err := validatePassword(plainTextPassword); err != nil {
		return err
	}
	u, err := UserByUsername(username)
	if err != nil {
		return err
	}
	if err = u.SetPassword(plainTextPassword); err != nil {
		return err
	}
	return db.Instance.Model(&u).Update("hashed_pass", u.HashedPass).Error
}

// UserDelete removes the account and everything it owns. Only the user or an admin may do it.
func UserDelete(actor *User, id uint64) error {
	if err := CanMutate(actor, &id).Err(); err != nil {
		return err
	}
	target, err := UserByID(id)
	if err != nil {
		return err
	}
	var images []string
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		var nikoIDs, postIDs []uint64
		if err := tx.Model(&Niko{}).Where("author_id = ?", id).Pluck("id", &nikoIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		var postImages, submissionImages []string
		if err := tx.Model(&Post{}).Where("user_id = ? AND image != ''", id).Pluck("image", &postImages).Error; err != nil {
			return err
		}
		if err := tx.Model(&Submission{}).Where("user_id = ? AND image != ''", id).Pluck("image", &submissionImages).Error; err != nil {
			return err
		}
		if len(nikoIDs) > 0 {
			if err := deleteNikoChildren(tx, nikoIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", nikoIDs).Delete(&Niko{}).Error; err != nil {
				return err
			}
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&User{}, id).Error; err != nil {
			return err
		}
		for _, nikoID := range nikoIDs {
			images = append(images, processing.NikoImageName(nikoID))
		}
		images = append(images, postImages...)
		images = append(images, submissionImages...)
		if target.ProfilePicture != nil {
			images = append(images, *target.ProfilePicture)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return removeImages(images)
}

// SetProfilePicture replaces the picture of user id, the previous file is removed
func SetProfilePicture(actor *User, id uint64, upload processing.Upload) error {
	if err := CanMutate(actor, &id).Err(); err != nil {
		return err
	}
	target, err := UserByID(id)
	if err != nil {
		return err
	}
	previous := target.ProfilePicturePath()
	name := processing.NewImageName()
	if err = processing.Store(name, upload); err != nil {
		return err
	}
	if err = db.Instance.Model(&User{}).Where("id = ?", id).Update("profile_picture", name).Error; err != nil {
		_ = processing.Remove(name)
		return err
	}
	return processing.Remove(previous)
}

func DeleteProfilePicture(actor *User, id uint64) error {
	if err := CanMutate(actor, &id).Err(); err != nil {
		return err
	}
	target, err := UserByID(id)
	if err != nil {
		return err
	}
	path := target.ProfilePicturePath()
	if path == "" {
		return nil
	}
	if err = db.Instance.Model(&User{}).Where("id = ?", id).Update("profile_picture", nil).Error; err != nil {
		return err
	}
	return processing.Remove(path)
}

// ProfilePicturePath is empty when the user has no picture
func (u *User) ProfilePicturePath() string {
	if u.ProfilePicture == nil {
		return ""
	}
	return *u.ProfilePicture
}

func first(tx *gorm.DB, dest any, conds ...any) error {
	err := tx.First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func removeImages(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := processing.Remove(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
