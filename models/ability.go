package models

import (
	"errors"
	"strings"

	"nikodex/db"
)

type Ability struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"type:varchar(255);not null" json:"name"`
	NikoID uint64 `gorm:"index;not null" json:"niko_id"`
	Niko   *Niko  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

const maxAbilityNameLength = 255

type AbilityChange struct {
	Name   string
	NikoID uint64
}

func AbilityList() (abilities []Ability, err error) {
	err = db.Instance.Order("id").Find(&abilities).Error
	return
}

func AbilityByID(id uint64) (a Ability, err error) {
	return a, first(db.Instance, &a, "id = ?", id)
}

// canMutateNiko applies the ownership rule of the niko an ability hangs off
func canMutateNiko(actor *User, nikoID uint64) error {
	var n Niko
	if err := first(db.Instance.Select("id", "author_id"), &n, "id = ?", nikoID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrOrphanAbility
		}
		return err
	}
	return CanMutate(actor, n.AuthorID).Err()
}

func validateAbilityName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "is required")
	}
	if len(name) > maxAbilityNameLength {
		return "", invalid("name", "is too long")
	}
	return name, nil
}

func AbilityCreate(actor *User, req AbilityChange) (a Ability, err error) {
	if req.Name, err = validateAbilityName(req.Name); err != nil {
		return
	}
	if err = canMutateNiko(actor, req.NikoID); err != nil {
		if errors.Is(err, ErrOrphanAbility) {
			err = ErrNotFound
		}
		return
	}
	a = Ability{Name: req.Name, NikoID: req.NikoID}
	err = db.Instance.Create(&a).Error
	return
}

// AbilityUpdate renames and/or moves an ability. Moving needs permission on both nikos.
func AbilityUpdate(actor *User, id uint64, req AbilityChange) (a Ability, err error) {
	if a, err = AbilityByID(id); err != nil {
		return
	}
	if err = canMutateNiko(actor, a.NikoID); err != nil {
		return
	}
	updates := map[string]any{}
	if req.Name != "" {
		if req.Name, err = validateAbilityName(req.Name); err != nil {
			return
		}
		updates["name"] = req.Name
	}
	if req.NikoID != 0 && req.NikoID != a.NikoID {
		if err = canMutateNiko(actor, req.NikoID); err != nil {
			if errors.Is(err, ErrOrphanAbility) {
				err = ErrNotFound
			}
			return
		}
		updates["niko_id"] = req.NikoID
	}
	if len(updates) == 0 {
		return
	}
	if err = db.Instance.Model(&a).Updates(updates).Error; err != nil {
		return
	}
	return AbilityByID(id)
}

func AbilityDelete(actor *User, id uint64) (a Ability, err error) {
	if a, err = AbilityByID(id); err != nil {
		return
	}
	if err = canMutateNiko(actor, a.NikoID); err != nil {
		return
	}
	err = db.Instance.Delete(&Ability{}, id).Error
	return
}
