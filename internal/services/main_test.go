// internal/services/main_test.go
package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wareflow/wareflow-backend/internal/config"
	"github.com/wareflow/wareflow-backend/internal/models"
)

// newTestDB opens a private in-memory database and migrates the full
// schema. Each call gets its own database.
func newTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Warehouse{},
		&models.Quantity{},
		&models.Transaction{},
		&models.Notification{},
		&models.NotificationRecipient{},
		&models.PushSubscription{},
		&models.OTP{},
		&models.AuditLog{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			AccessSecret:    "test-access-secret",
			RefreshSecret:   "test-refresh-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
			InviteTokenTTL:  5,
		},
		OTP: config.OTPConfig{
			TTLMinutes:      5,
			CooldownSeconds: 60,
		},
	}
}

// --- fixtures ---

func createTestUser(db *gorm.DB, email string, role models.UserRole) (*models.User, error) {
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Role:     role,
		Verified: true,
		Active:   true,
	}
	if err := user.SetPassword("Password123"); err != nil {
		return nil, err
	}
	return user, db.Create(user).Error
}

func createTestWarehouse(db *gorm.DB, name string, capacity int64) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{
		Name:     name,
		Address:  fmt.Sprintf("%s street %s", name, uuid.NewString()[:8]),
		Capacity: capacity,
		Active:   true,
	}
	return warehouse, db.Create(warehouse).Error
}

func createTestProduct(db *gorm.DB, name string, price float64) (*models.Product, error) {
	product := &models.Product{
		Name:     name,
		Category: models.CategoryElectronics,
		Price:    price,
	}
	return product, db.Create(product).Error
}

func seedStock(db *gorm.DB, warehouseID, productID uuid.UUID, quantity, reorderLimit int64) error {
	return db.Create(&models.Quantity{
		WarehouseID:  warehouseID,
		ProductID:    productID,
		Quantity:     quantity,
		ReorderLimit: reorderLimit,
	}).Error
}

// --- fakes ---

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]error{}}
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[to]; ok {
		return err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) sentTo(to string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMail
	for _, s := range m.sent {
		if s.To == to {
			out = append(out, s)
		}
	}
	return out
}

type fakePush struct {
	mu       sync.Mutex
	payloads []string
	failWith error
}

func (p *fakePush) Send(sub *models.PushSubscription, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.payloads = append(p.payloads, string(payload))
	return nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []Event
}

func (d *recordingDispatcher) Dispatch(event Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) byType(t models.NotificationType) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
