package service

import (
	"context"
	"strings"

	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/store"
)

// languageOverlapThreshold accepts a name-equality match when at least half
// of the smaller language set is shared. Exact phone equality never consults
// this.
const languageOverlapThreshold = 0.5

// NormalizePhone reduces a phone number to digits only, so "+91 91873-51205"
// and "919187351205" compare equal.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// DedupeService recognizes that two separately submitted records describe the
// same person. Read-only; callers decide whether to merge or create.
type DedupeService struct {
	candidates store.CandidateStore
}

func NewDedupeService(candidates store.CandidateStore) *DedupeService {
	return &DedupeService{candidates: candidates}
}

// FindMatch returns the existing candidate for this identity, if any. Exact
// normalized-phone equality is authoritative. A phone that normalizes to
// nothing is not an error; matching degrades to the name-and-language
// fallback.
func (d *DedupeService) FindMatch(ctx context.Context, name, phone string, languages []model.Language) (*model.Candidate, error) {
	existing, err := d.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	normPhone := NormalizePhone(phone)
	if normPhone != "" {
		for _, candidate := range existing {
			if candidate.NormalizedPhone == normPhone {
				return candidate, nil
			}
		}
		return nil, store.ErrNotFound
	}

	normName := normalizeName(name)
	if normName == "" {
		return nil, store.ErrNotFound
	}
	for _, candidate := range existing {
		if normalizeName(candidate.Name) != normName {
			continue
		}
		if languageOverlap(candidate.Languages, languages) >= languageOverlapThreshold {
			return candidate, nil
		}
	}
	return nil, store.ErrNotFound
}

// languageOverlap is |intersection| / |smaller set|. Either side being empty
// yields 1, letting name equality decide alone.
func languageOverlap(a, b []model.Language) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1
	}
	set := make(map[model.Language]struct{}, len(a))
	for _, lang := range a {
		set[lang] = struct{}{}
	}
	shared := 0
	for _, lang := range b {
		if _, ok := set[lang]; ok {
			shared++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(shared) / float64(smaller)
}
