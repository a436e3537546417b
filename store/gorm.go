package store

import (
	"log"
	"strings"

	"satmine/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists the collections in MySQL through gorm. Load failures are
// logged and surfaced as empty collections so a broken table never takes a
// request down; save failures are logged and dropped for the same reason.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadUsers() []models.User {
	var users []models.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		log.Printf("[store] load users: %v", err)
		return []models.User{}
	}
	return users
}

func (s *GormStore) SaveUsers(users []models.User) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		names := make([]string, 0, len(users))
		for i := range users {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				UpdateAll: true,
			}).Create(&users[i]).Error; err != nil {
				return err
			}
			names = append(names, users[i].Username)
		}
		if len(names) == 0 {
			return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error
		}
		return tx.Where("username NOT IN ?", names).Delete(&models.User{}).Error
	})
	if err != nil {
		log.Printf("[store] save users: %v", err)
	}
}

func (s *GormStore) LoadDevices() []models.Device {
	var devices []models.Device
	if err := s.db.Order("created_at ASC").Find(&devices).Error; err != nil {
		log.Printf("[store] load devices: %v", err)
		return []models.Device{}
	}
	return devices
}

func (s *GormStore) SaveDevices(devices []models.Device) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(devices))
		for i := range devices {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&devices[i]).Error; err != nil {
				return err
			}
			ids = append(ids, devices[i].ID)
		}
		if len(ids) == 0 {
			return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Device{}).Error
		}
		return tx.Where("id NOT IN ?", ids).Delete(&models.Device{}).Error
	})
	if err != nil {
		log.Printf("[store] save devices: %v", err)
	}
}

func (s *GormStore) LoadTaskStates() map[string][]models.TaskState {
	var rows []models.TaskState
	out := make(map[string][]models.TaskState)
	if err := s.db.Order("id ASC").Find(&rows).Error; err != nil {
		log.Printf("[store] load task states: %v", err)
		return out
	}
	for _, row := range rows {
		key := NormalizeUsername(row.Username)
		out[key] = append(out[key], row)
	}
	return out
}

func (s *GormStore) SaveTaskStates(states map[string][]models.TaskState) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		keys := make([]string, 0, len(states))
		for key, rows := range states {
			key = NormalizeUsername(key)
			keys = append(keys, key)
			if err := tx.Where("username = ?", key).Delete(&models.TaskState{}).Error; err != nil {
				return err
			}
			for i := range rows {
				rows[i].ID = 0
				rows[i].Username = key
				if err := tx.Create(&rows[i]).Error; err != nil {
					return err
				}
			}
		}
		if len(keys) == 0 {
			return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.TaskState{}).Error
		}
		return tx.Where("username NOT IN ?", keys).Delete(&models.TaskState{}).Error
	})
	if err != nil {
		log.Printf("[store] save task states: %v", err)
	}
}

func (s *GormStore) FindUser(username string) *models.User {
	var user models.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return nil
	}
	return &user
}

func (s *GormStore) UpdateUser(user models.User) {
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		UpdateAll: true,
	}).Create(&user).Error; err != nil {
		log.Printf("[store] update user %s: %v", user.Username, err)
	}
}

func (s *GormStore) DeleteUser(username string) {
	key := NormalizeUsername(username)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("LOWER(TRIM(username)) = ?", key).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Where("LOWER(TRIM(owner)) = ?", key).Delete(&models.Device{}).Error; err != nil {
			return err
		}
		return tx.Where("username = ?", key).Delete(&models.TaskState{}).Error
	})
	if err != nil {
		log.Printf("[store] delete user %s: %v", username, err)
	}
}

func (s *GormStore) AppendTransaction(txRow models.Transaction) {
	if err := s.db.Create(&txRow).Error; err != nil {
		log.Printf("[store] append transaction %s: %v", txRow.OrderID, err)
	}
}

func (s *GormStore) LoadTransactions(username string) []models.Transaction {
	var rows []models.Transaction
	if err := s.db.Where("username = ?", NormalizeUsername(username)).Order("id DESC").Limit(100).Find(&rows).Error; err != nil {
		log.Printf("[store] load transactions: %v", err)
		return []models.Transaction{}
	}
	return rows
}
