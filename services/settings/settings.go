package settings

import (
	"context"
	"errors"
	"strconv"

	"villa-booking/config"
	"villa-booking/logger"
	settingModel "villa-booking/models/setting"
	"villa-booking/services/mail"
	"villa-booking/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Source returns a setting value or the fallback when it is unset
type Source interface {
	Get(ctx context.Context, key, fallback string) string
}

// Service reads and writes the system_settings table
type Service struct {
	DB  *gorm.DB
	Box *utils.SecretBox
}

func NewService(db *gorm.DB, box *utils.SecretBox) *Service {
	return &Service{DB: db, Box: box}
}

func (s *Service) Get(ctx context.Context, key, fallback string) string {
	var row settingModel.SystemSetting
	err := s.DB.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to read setting "+key, err)
		}
		return fallback
	}
	if row.Value == "" {
		return fallback
	}
	if !row.Encrypted {
		return row.Value
	}
	if s.Box == nil {
		logger.Warning("Setting " + key + " is encrypted but no encryption key is configured")
		return fallback
	}
	plain, err := s.Box.Decrypt(row.Value)
	if err != nil {
		logger.Error("Failed to decrypt setting "+key, err)
		return fallback
	}
	return plain
}

// Set upserts a setting, encrypting it when secret is true.
func (s *Service) Set(ctx context.Context, key, value string, secret bool) error {
	stored := value
	if secret {
		if s.Box == nil {
			return utils.ErrNoEncryptionKey
		}
		sealed, err := s.Box.Encrypt(value)
		if err != nil {
			return err
		}
		stored = sealed
	}
	row := settingModel.SystemSetting{Key: key, Value: stored, Encrypted: secret}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "encrypted", "updated_at"}),
	}).Create(&row).Error
}

// MailConfig resolves SMTP credentials, preferring stored settings over env.
func MailConfig(ctx context.Context, src Source, cfg *config.Config) mail.SMTPConfig {
	port, err := strconv.Atoi(src.Get(ctx, settingModel.KeyMailPort, strconv.Itoa(cfg.MailPort)))
	if err != nil {
		port = cfg.MailPort
	}
	return mail.SMTPConfig{
		Host:          src.Get(ctx, settingModel.KeyMailHost, cfg.MailHost),
		Port:          port,
		Username:      src.Get(ctx, settingModel.KeyMailUsername, cfg.MailUsername),
		Password:      src.Get(ctx, settingModel.KeyMailPassword, cfg.MailPassword),
		From:          src.Get(ctx, settingModel.KeyMailFrom, cfg.MailFrom),
		RatePerSecond: cfg.MailRatePerSecond,
	}
}

// Static is a fixed Source
type Static map[string]string

func (s Static) Get(_ context.Context, key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}
