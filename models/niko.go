package models

import (
	"math/rand/v2"
	"strings"

	"nikodex/db"
	"nikodex/processing"
	"nikodex/utils"

	"gorm.io/gorm"
)

type Niko struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(127);not null" json:"name"`
	Description   string    `gorm:"type:varchar(255)" json:"description"`
	FullDesc      string    `gorm:"type:varchar(1023)" json:"full_desc"`
	Author        string    `gorm:"type:varchar(255)" json:"-"`
	IsBlacklisted bool      `gorm:"not null;default:false" json:"is_blacklisted"`
	AuthorID      *uint64   `gorm:"index" json:"author_id"`
	User          *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Abilities     []Ability `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"abilities"`
}

const (
	maxNikoNameLength     = 127
	maxNikoFullDescLength = 1023
	maxAuthorLength       = 255

	MissingAuthorName = "Could not find author_name.."
)

type SortType string

const (
	SortRecentlyAdded  SortType = "recently_added"
	SortOldestAdded    SortType = "oldest_added"
	SortNameAscending  SortType = "name_ascending"
	SortNameDescending SortType = "name_descending"
)

func ParseSortType(s string) (SortType, error) {
	switch SortType(s) {
	case "":
		return SortOldestAdded, nil
	case SortRecentlyAdded, SortOldestAdded, SortNameAscending, SortNameDescending:
		return SortType(s), nil
	}
	return "", invalid("sort_by", "must be one of recently_added, oldest_added, name_ascending, name_descending")
}

func (s SortType) orderBy() string {
	switch s {
	case SortRecentlyAdded:
		return "id DESC"
	case SortNameAscending:
		return "name ASC, id ASC"
	case SortNameDescending:
		return "name DESC, id ASC"
	}
	return "id ASC"
}

// NikoChange is the writable part of a Niko. A nil or negative AuthorID means legacy authorship.
type NikoChange struct {
	Name          string
	Description   string
	FullDesc      string
	Author        string
	IsBlacklisted bool
	AuthorID      *int64
}

// AuthorName is the linked user's name for owned entries and the free text author otherwise
func (n *Niko) AuthorName() string {
	if n.AuthorID == nil {
		return n.Author
	}
	if n.User == nil {
		return MissingAuthorName
	}
	return n.User.Username
}

func (n *Niko) ImagePath() string {
	return processing.NikoImageName(n.ID)
}

func nikoQuery(tx *gorm.DB) *gorm.DB {
	return tx.Model(&Niko{}).
		Preload("User").
		Preload("Abilities", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") })
}

func NikoList(sort SortType) (nikos []Niko, err error) {
	err = nikoQuery(db.Instance).Order(sort.orderBy()).Find(&nikos).Error
	return
}

func NikoPage(page utils.Pagination, sort SortType) (nikos []Niko, err error) {
	if !page.Valid() {
		return nil, invalid("page", utils.ErrBadPagination.Error())
	}
	err = nikoQuery(db.Instance).Order(sort.orderBy()).Offset(page.Offset()).Limit(page.Count).Find(&nikos).Error
	return
}

func NikoByID(id uint64) (n Niko, err error) {
	return n, first(nikoQuery(db.Instance), &n, "nikos.id = ?", id)
}

func NikoSearch(name string) (nikos []Niko, err error) {
	err = nikoQuery(db.Instance).Where("name LIKE ?", likePattern(name)).Order("id").Find(&nikos).Error
	return
}

func NikosByUser(userID uint64) (nikos []Niko, err error) {
	err = nikoQuery(db.Instance).Where("author_id = ?", userID).Order("id").Find(&nikos).Error
	return
}

// NikoLatestIDOfUser returns the id of the newest entry owned by userID
func NikoLatestIDOfUser(userID uint64) (id uint64, err error) {
	var n Niko
	if err = first(db.Instance.Select("id").Where("author_id = ?", userID).Order("id DESC"), &n); err != nil {
		return 0, err
	}
	return n.ID, nil
}

func NikoCount() (count int64, err error) {
	err = db.Instance.Model(&Niko{}).Count(&count).Error
	return
}

// NikoRandom picks uniformly from the whole catalog
func NikoRandom() (n Niko, err error) {
	var ids []uint64
	if err = db.Instance.Model(&Niko{}).Pluck("id", &ids).Error; err != nil {
		return
	}
	if len(ids) == 0 {
		return n, ErrNotFound
	}
	return NikoByID(ids[rand.IntN(len(ids))])
}

func (req *NikoChange) validate(create bool) error {
	req.Name = strings.TrimSpace(req.Name)
	if create && req.Name == "" {
		return invalid("name", "is required")
	}
	if len(req.Name) > maxNikoNameLength {
		return invalid("name", "is too long")
	}
	if len(req.Description) > maxDescriptionLength {
		return invalid("description", "is too long")
	}
	if len(req.FullDesc) > maxNikoFullDescLength {
		return invalid("full_desc", "is too long")
	}
	if len(req.Author) > maxAuthorLength {
		return invalid("author", "is too long")
	}
	return nil
}

// resolveAuthor returns the owner to store for the requested author id
func resolveAuthor(tx *gorm.DB, authorID *int64) (*uint64, error) {
	if authorID == nil || *authorID < 0 {
		return nil, nil
	}
	id := uint64(*authorID)
	var count int64
	if err := tx.Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, invalid("author_id", "Specified author ID does not exist.")
	}
	return &id, nil
}

// NikoCreate inserts a new entry, admins only
func NikoCreate(actor *User, req NikoChange) (n Niko, err error) {
	if err = RequireAdmin(actor); err != nil {
		return
	}
	if err = req.validate(true); err != nil {
		return
	}
	n = Niko{
		Name:          req.Name,
		Description:   req.Description,
		FullDesc:      req.FullDesc,
		Author:        req.Author,
		IsBlacklisted: req.IsBlacklisted,
	}
	if n.AuthorID, err = resolveAuthor(db.Instance, req.AuthorID); err != nil {
		return Niko{}, err
	}
	if err = db.Instance.Create(&n).Error; err != nil {
		return Niko{}, err
	}
	return NikoByID(n.ID)
}

// NikoUpdate overwrites the non-empty text fields and the flags, reassigning or clearing the owner
func NikoUpdate(actor *User, id uint64, req NikoChange) (n Niko, err error) {
	if err = req.validate(false); err != nil {
		return
	}
	if n, err = NikoByID(id); err != nil {
		return
	}
	if err = CanMutate(actor, n.AuthorID).Err(); err != nil {
		return
	}
	authorID, err := resolveAuthor(db.Instance, req.AuthorID)
	if err != nil {
		return
	}
	updates := map[string]any{
		"is_blacklisted": req.IsBlacklisted,
		"author_id":      authorID,
	}
	for column, value := range map[string]string{
		"name":        req.Name,
		"description": req.Description,
		"full_desc":   req.FullDesc,
		"author":      req.Author,
	} {
		if value != "" {
			updates[column] = value
		}
	}
	if err = db.Instance.Model(&Niko{ID: id}).Updates(updates).Error; err != nil {
		return
	}
	return NikoByID(id)
}

func deleteNikoChildren(tx *gorm.DB, ids []uint64) error {
	if err := tx.Where("niko_id IN ?", ids).Delete(&Ability{}).Error; err != nil {
		return err
	}
	return tx.Where("niko_id IN ?", ids).Delete(&DailyPick{}).Error
}

// NikoDelete removes the entry with its abilities, pick history and image
func NikoDelete(actor *User, id uint64) (n Niko, err error) {
	if n, err = NikoByID(id); err != nil {
		return
	}
	if err = CanMutate(actor, n.AuthorID).Err(); err != nil {
		return
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := deleteNikoChildren(tx, []uint64{id}); err != nil {
			return err
		}
		return tx.Delete(&Niko{}, id).Error
	})
	if err != nil {
		return
	}
	return n, processing.Remove(n.ImagePath())
}

func NikoSetImage(actor *User, id uint64, upload processing.Upload) error {
	n, err := NikoByID(id)
	if err != nil {
		return err
	}
	if err = CanMutate(actor, n.AuthorID).Err(); err != nil {
		return err
	}
	return processing.Store(n.ImagePath(), upload)
}

func NikoDeleteImage(actor *User, id uint64) error {
	n, err := NikoByID(id)
	if err != nil {
		return err
	}
	if err = CanMutate(actor, n.AuthorID).Err(); err != nil {
		return err
	}
	return processing.Remove(n.ImagePath())
}

func likePattern(s string) string {
	return "%" + s + "%"
}
