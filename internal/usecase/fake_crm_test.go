package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

var errCRMDown = errors.New("crm indisponível")

// fakeCRM guarda identidades e estadias em memória e aplica as escritas,
// para rodar o motor duas vezes contra o mesmo estado.
type fakeCRM struct {
	mu         sync.Mutex
	seq        int
	identities map[string][]entity.IdentityRecord
	stays      map[entity.StayKey]entity.TargetStayRecord

	identityLookups [][]string
	stayLookups     [][]string
	createdStays    []entity.ProposedStayRecord
	createdIDs      []entity.IdentityCreate
	updates         []entity.StayUpdate
	failOn          string
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		identities: map[string][]entity.IdentityRecord{},
		stays:      map[entity.StayKey]entity.TargetStayRecord{},
	}
}

func (f *fakeCRM) addIdentity(email, first, last string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addIdentityLocked(email, first, last)
}

func (f *fakeCRM) addIdentityLocked(email, first, last string) string {
	f.seq++
	id := "contact-" + strconv.Itoa(f.seq)
	f.identities[email] = append(f.identities[email], entity.IdentityRecord{ID: id, FirstName: first, LastName: last, Email: email})
	return id
}

func (f *fakeCRM) addStay(stay entity.StayRecord) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := "lead-" + strconv.Itoa(f.seq)
	f.stays[stay.Key()] = entity.TargetStayRecord{ID: id, StayRecord: stay}
	return id
}

func (f *fakeCRM) FindIdentitiesByEmail(_ context.Context, emails []string) (map[string][]entity.IdentityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "FindIdentitiesByEmail" {
		return nil, errCRMDown
	}

	f.identityLookups = append(f.identityLookups, append([]string(nil), emails...))
	out := make(map[string][]entity.IdentityRecord)
	for _, email := range emails {
		if ids := f.identities[email]; len(ids) > 0 {
			out[email] = append([]entity.IdentityRecord(nil), ids...)
		}
	}
	return out, nil
}

func (f *fakeCRM) FindStaysByIdentity(_ context.Context, identityIDs []string) (map[entity.StayKey]entity.TargetStayRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "FindStaysByIdentity" {
		return nil, errCRMDown
	}

	f.stayLookups = append(f.stayLookups, append([]string(nil), identityIDs...))
	wanted := make(map[string]bool, len(identityIDs))
	for _, id := range identityIDs {
		wanted[id] = true
	}
	out := make(map[entity.StayKey]entity.TargetStayRecord)
	for key, stay := range f.stays {
		if wanted[key.IdentityID] {
			out[key] = stay
		}
	}
	return out, nil
}

func (f *fakeCRM) CreateIdentity(_ context.Context, in entity.IdentityCreate) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "CreateIdentity" {
		return "", errCRMDown
	}
	f.createdIDs = append(f.createdIDs, in)
	return f.addIdentityLocked(in.Email, in.FirstName, in.LastName), nil
}

func (f *fakeCRM) CreateStay(_ context.Context, stay entity.ProposedStayRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "CreateStay" {
		return "", errCRMDown
	}
	if _, dup := f.stays[stay.Key()]; dup {
		return "", fmt.Errorf("estadia duplicada para %v", stay.Key())
	}
	f.createdStays = append(f.createdStays, stay)
	f.seq++
	id := "lead-" + strconv.Itoa(f.seq)
	f.stays[stay.Key()] = entity.TargetStayRecord{ID: id, StayRecord: stay.StayRecord}
	return id, nil
}

func (f *fakeCRM) UpdateStay(_ context.Context, u entity.StayUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "UpdateStay" {
		return errCRMDown
	}
	f.updates = append(f.updates, u)

	key := u.Existing.Key()
	stay, ok := f.stays[key]
	if !ok {
		return fmt.Errorf("estadia %s não existe", u.Existing.ID)
	}
	flags := entity.EngagementFlags{}
	for k, v := range stay.Flags {
		flags[k] = v
	}
	for _, c := range u.Changes {
		switch c.Field {
		case "first_name":
			stay.FirstName = c.ToValue
		case "last_name":
			stay.LastName = c.ToValue
		case "phone":
			stay.Phone = c.ToValue
		case "language":
			stay.Language = c.ToValue
		case "city":
			stay.Address.City = c.ToValue
		case "state":
			stay.Address.State = c.ToValue
		case "country":
			stay.Address.Country = c.ToValue
		case "check_out":
			stay.CheckOut = day(c.ToValue)
		default:
			flags[entity.EngagementFlag(c.Field)] = c.ToValue == "true"
		}
	}
	stay.Flags = flags
	f.stays[key] = stay
	return nil
}

func (f *fakeCRM) identityCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ids := range f.identities {
		n += len(ids)
	}
	return n
}
