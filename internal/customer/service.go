package customer

import (
	"context"
	"strings"
	"time"

	"rentpos-backend/internal/apperr"
	"rentpos-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identity is the customer data captured at the counter.
type Identity struct {
	Name  string
	Phone string
	Email string
}

func (id Identity) normalize() Identity {
	return Identity{
		Name:  strings.TrimSpace(id.Name),
		Phone: NormalizePhone(id.Phone),
		Email: strings.ToLower(strings.TrimSpace(id.Email)),
	}
}

// NormalizePhone drops spaces, dots and dashes so "0550 12-34-56" and
// "0550123456" are the same customer.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// Upsert creates or refreshes the customer keyed by phone and returns the
// stored row. An empty phone means an anonymous customer: nil, nil.
// The name always follows the latest identity; the email only when given.
func Upsert(tx *gorm.DB, identity Identity) (*models.Customer, error) {
	id := identity.normalize()
	if id.Phone == "" {
		return nil, nil
	}

	columns := []string{"updated_at"}
	if id.Name != "" {
		columns = append(columns, "name")
	}
	if id.Email != "" {
		columns = append(columns, "email")
	}

	c := models.Customer{Phone: id.Phone, Name: id.Name, Email: id.Email, UpdatedAt: time.Now()}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&c).Error
	if err != nil {
		return nil, apperr.Store(err, "upsert customer")
	}

	// the id returned by an upsert is not reliable across dialects
	var stored models.Customer
	if err := tx.Where("phone = ?", id.Phone).Take(&stored).Error; err != nil {
		return nil, apperr.Store(err, "reload customer")
	}
	return &stored, nil
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).Where("phone = ?", NormalizePhone(phone)).Take(&c).Error
	if err != nil {
		return nil, apperr.Store(err, "no customer with phone "+phone)
	}
	return &c, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, apperr.Store(err, "customer not found")
	}
	return &c, nil
}

// Search matches name, phone or email by substring, most recent first.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := s.db.WithContext(ctx).Order("updated_at DESC, id DESC").Limit(limit)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, "%"+NormalizePhone(q)+"%", like)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, apperr.Store(err, "search customers")
	}
	return customers, nil
}

// History returns the rentals and counter transactions recorded for a customer.
func (s *Service) History(ctx context.Context, customerID uint) ([]models.Rental, []models.Transaction, error) {
	var rentals []models.Rental
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("start_date DESC").Find(&rentals).Error; err != nil {
		return nil, nil, apperr.Store(err, "customer rentals")
	}
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, nil, apperr.Store(err, "customer transactions")
	}
	return rentals, transactions, nil
}
