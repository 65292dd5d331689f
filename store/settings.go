package store

import (
	"encoding/json"

	"garagebill-backend/models"
	"garagebill-backend/utils"
)

const (
	settingsKey    = "companySettings"
	credentialsKey = "credentials"
	previewPrefix  = "preview:"
)

// CompanyProfile returns the stored profile, or the zero value when the
// settings screen has never been saved.
func (s *Store) CompanyProfile() (models.CompanyProfile, error) {
	var profile models.CompanyProfile
	raw, found, err := s.Get(settingsKey)
	if err != nil || !found {
		return profile, err
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.CompanyProfile{}, err
	}
	return profile, nil
}

// SaveCompanyProfile overwrites the profile wholesale.
func (s *Store) SaveCompanyProfile(profile models.CompanyProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.Put(settingsKey, raw)
}

// Credential returns the stored login credential.
func (s *Store) Credential() (models.Credential, bool, error) {
	var cred models.Credential
	raw, found, err := s.Get(credentialsKey)
	if err != nil || !found {
		return cred, false, err
	}
	if err := json.Unmarshal(raw, &cred); err != nil {
		return models.Credential{}, false, err
	}
	return cred, true, nil
}

// SaveCredential overrides the login credential.
func (s *Store) SaveCredential(cred models.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return s.Put(credentialsKey, raw)
}

// SeedDefaultCredential writes the built-in admin credential if none
// has ever been stored.
func (s *Store) SeedDefaultCredential() error {
	if _, found, err := s.Credential(); err != nil || found {
		return err
	}
	hash, err := utils.HashPassword(models.DefaultPassword)
	if err != nil {
		return err
	}
	return s.SaveCredential(models.Credential{
		Username:     models.DefaultUsername,
		PasswordHash: hash,
	})
}

// SavePreview stores an ephemeral preview hand-off payload under a token.
func (s *Store) SavePreview(token string, payload []byte) error {
	return s.Put(previewPrefix+token, payload)
}

// Preview returns a stored preview payload.
func (s *Store) Preview(token string) ([]byte, bool, error) {
	return s.Get(previewPrefix + token)
}
