package postgres

import (
	"errors"

	"github.com/yoockh/placementcell/internal/utils"
	"gorm.io/gorm"
)

// translate maps gorm errors onto repository sentinels. The DB must be opened
// with gorm.Config{TranslateError: true} for duplicate keys to be recognised.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.ErrDuplicate
	default:
		return err
	}
}

// affected turns a zero-row update/delete into ErrNotFound.
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
