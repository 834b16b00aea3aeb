package repositories

import (
	"telemetry-server/db"
	"telemetry-server/entities"
)

type tokenPgRepository struct {
	db db.Database
}

func NewTokenPgRepository(database db.Database) TokenRepository {
	return &tokenPgRepository{db: database}
}

// GetOrCreate returns the user's token, creating one on first use. At most
// one live token exists per user; the unique index on user_id backs this up
// under concurrent registration and login.
func (r *tokenPgRepository) GetOrCreate(userID string) (*entities.Token, error) {
	var token entities.Token
	err := r.db.GetDB().Where(entities.Token{UserID: userID}).FirstOrCreate(&token).Error
	if err != nil {
		// Lost a create race; the winner's token is the live one
		var existing entities.Token
		if ferr := r.db.GetDB().Where("user_id = ?", userID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenPgRepository) GetByKey(key string) (*entities.Token, error) {
	var token entities.Token
	err := r.db.GetDB().Where("key = ?", key).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}
