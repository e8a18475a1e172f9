package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bigidrise/mealguard/internal/models"
	"github.com/bigidrise/mealguard/internal/safety"
)

// ErrProfileNotFound is returned when the user has no profile rows at
// all. The gate decides what to do with it (fail-open or fail-closed)
// based on configuration.
var ErrProfileNotFound = errors.New("safety profile not found")

// ProfileService builds a safety profile from the database. Every call
// hits the database; nothing is cached, so profile edits are enforced
// on the very next assessment.
type ProfileService struct {
	db *gorm.DB
}

var _ ProfileLoader = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// LoadProfile assembles the profile from its facet tables.
func (s *ProfileService) LoadProfile(ctx context.Context, userID uuid.UUID) (safety.Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return safety.Profile{}, ErrProfileNotFound
		}
		return safety.Profile{}, fmt.Errorf("failed to load user: %w", err)
	}

	profile := safety.Profile{UserID: userID.String()}

	var allergens []models.Allergen
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&allergens).Error; err != nil {
		return safety.Profile{}, fmt.Errorf("failed to load allergens: %w", err)
	}
	for _, a := range allergens {
		profile.Allergies = append(profile.Allergies, a.AllergenName)
	}

	var prefs []models.DietaryPreference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		return safety.Profile{}, fmt.Errorf("failed to load dietary preferences: %w", err)
	}
	for _, p := range prefs {
		if p.PreferenceType == "custom" && p.CustomName != "" {
			profile.DietaryRestrictions = append(profile.DietaryRestrictions, p.CustomName)
			continue
		}
		profile.DietaryRestrictions = append(profile.DietaryRestrictions, p.PreferenceType)
	}

	var conditions []models.HealthCondition
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&conditions).Error; err != nil {
		return safety.Profile{}, fmt.Errorf("failed to load health conditions: %w", err)
	}
	for _, c := range conditions {
		profile.HealthConditions = append(profile.HealthConditions, c.ConditionName)
	}

	var avoided []models.AvoidedIngredient
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&avoided).Error; err != nil {
		return safety.Profile{}, fmt.Errorf("failed to load avoided ingredients: %w", err)
	}
	for _, i := range avoided {
		profile.AvoidIngredients = append(profile.AvoidIngredients, i.IngredientName)
	}

	return profile, nil
}

// GetPinHash returns the stored override PIN hash, or empty when none
// is configured.
func (s *ProfileService) GetPinHash(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	return user.PinHash, nil
}

// SetPinHash stores a new override PIN hash for the user.
func (s *ProfileService) SetPinHash(ctx context.Context, userID uuid.UUID, hash string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("pin_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update pin hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

var _ CredentialStore = (*ProfileService)(nil)
