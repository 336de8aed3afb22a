package store

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"

	"pharmacie/m/domain"
)

func (s *Store) Prescriptions() []domain.Prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.prescriptions)
}

func (s *Store) Prescription(id string) (domain.Prescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.prescriptionIndex(id)
	if i < 0 {
		return domain.Prescription{}, false
	}
	return s.prescriptions[i], true
}

func (s *Store) AddPrescription(ctx context.Context, in domain.PrescriptionInput) (domain.Prescription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.Prescription{
		ID:        s.newID(),
		Name:      in.Name,
		Phone:     in.Phone,
		Note:      in.Note,
		File:      in.File,
		FileName:  in.FileName,
		FileType:  in.FileType,
		CreatedAt: s.now(),
	}
	next := append(slices.Clone(s.prescriptions), p)
	if err := s.persist(ctx, CollectionPrescriptions, next); err != nil {
		return domain.Prescription{}, err
	}
	s.prescriptions = next

	log.Info().Str("prescription_id", p.ID).Str("file_type", p.FileType).Msg("store: prescription received")
	return p, nil
}

func (s *Store) DeletePrescription(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.prescriptionIndex(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.prescriptions), i, i+1)
	if err := s.persist(ctx, CollectionPrescriptions, next); err != nil {
		return false, err
	}
	s.prescriptions = next
	return true, nil
}

func (s *Store) prescriptionIndex(id string) int {
	return slices.IndexFunc(s.prescriptions, func(p domain.Prescription) bool { return p.ID == id })
}
