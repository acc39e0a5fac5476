package members

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/adl-parti/membership-backend/internal/repository"
	svc "github.com/adl-parti/membership-backend/internal/services"
	"github.com/adl-parti/membership-backend/internal/testutil"
	"github.com/adl-parti/membership-backend/pkg/email"
	"github.com/adl-parti/membership-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type fakeSequenceRepo struct {
	mu   sync.Mutex
	last map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{last: map[string]int64{}}
}

func (f *fakeSequenceRepo) Next(ctx context.Context, divisionCode string, year int, tx *sqlx.Tx) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s%04d", divisionCode, year)
	f.last[key]++
	return f.last[key], nil
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	members []*repository.Member

	// createErrs is drained before each Create succeeds.
	createErrs []error

	lastListFilter repository.MemberRepositoryFilter
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return nil, err
	}

	for _, existing := range f.members {
		if existing.MembershipNumber == member.MembershipNumber {
			return nil, &pq.Error{Code: "23505"}
		}
	}

	stored := *member
	stored.CreatedAt = time.Now()
	f.members = append(f.members, &stored)
	return &stored, nil
}

func (f *fakeMemberRepo) Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if filter.MembershipNumber != nil && m.MembershipNumber == *filter.MembershipNumber {
			cp := *m
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMemberRepo) Exists(ctx context.Context, filter repository.MemberRepositoryFilter) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if filter.Email != nil && m.Email.String == *filter.Email {
			return true, nil
		}
		if filter.Phone != nil && m.Phone.String == *filter.Phone {
			return true, nil
		}
		if filter.MembershipNumber != nil && m.MembershipNumber == *filter.MembershipNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMemberRepo) List(ctx context.Context, filter repository.MemberRepositoryFilter, opts repository.QueryOptions) (*repository.ListResult[repository.Member], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastListFilter = filter

	var items []*repository.Member
	for _, m := range f.members {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.Wilaya != nil && m.Wilaya != *filter.Wilaya {
			continue
		}
		items = append(items, m)
	}
	return &repository.ListResult[repository.Member]{Items: items}, nil
}

func (f *fakeMemberRepo) CountByStatus(ctx context.Context, filter repository.MemberRepositoryFilter) ([]*repository.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, m := range f.members {
		counts[m.Status]++
	}
	var out []*repository.StatusCount
	for status, count := range counts {
		out = append(out, &repository.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (f *fakeMemberRepo) CountByWilaya(ctx context.Context, filter repository.MemberRepositoryFilter) ([]*repository.WilayaCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, m := range f.members {
		counts[m.Wilaya]++
	}
	var out []*repository.WilayaCount
	for wilaya, count := range counts {
		out = append(out, &repository.WilayaCount{Wilaya: wilaya, Count: count})
	}
	return out, nil
}

func (f *fakeMemberRepo) DistinctWilayas(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, m := range f.members {
		if !seen[m.Wilaya] {
			seen[m.Wilaya] = true
			out = append(out, m.Wilaya)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) UpdateProfilePhoto(ctx context.Context, membershipNumber, storageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.MembershipNumber == membershipNumber {
			m.ProfilePhotoID = sql.NullString{String: storageID, Valid: true}
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeMemberRepo) DistinctBaladiyas(ctx context.Context, wilaya *string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, m := range f.members {
		if wilaya != nil && m.Wilaya != *wilaya {
			continue
		}
		if m.Baladiya.Valid && !seen[m.Baladiya.String] {
			seen[m.Baladiya.String] = true
			out = append(out, m.Baladiya.String)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]any
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]any{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; !ok {
		return fmt.Errorf("cache miss")
	}
	// Values round-trip through the real cache as JSON; tests only
	// need hit/miss behavior, so a hit re-fetches from the repo path.
	return fmt.Errorf("cache miss")
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.entries, key)
	}
	f.deleted = append(f.deleted, keys...)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.WelcomeEmailData
}

func (f *fakeMailer) SendWelcome(ctx context.Context, to string, data email.WelcomeEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeStorage) GetURL(ctx context.Context, storageID string) (string, error) {
	return "https://assets.test/" + storageID, nil
}

func (f *fakeStorage) Delete(ctx context.Context, storageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, storageID)
	return nil
}

func newTestService(t *testing.T) (*Member, *fakeMemberRepo, *fakeSequenceRepo, *fakeMailer) {
	t.Helper()

	memberRepo := &fakeMemberRepo{}
	sequenceRepo := newFakeSequenceRepo()
	mailer := &fakeMailer{}
	cfg := &config.Config{IsDev: true}

	service := New(
		testutil.NewFakeDB(),
		cfg,
		memberRepo,
		sequenceRepo,
		newFakeCache(),
		mailer,
		&fakeStorage{},
		logger.New(cfg),
	)
	return service, memberRepo, sequenceRepo, mailer
}

func registerInput(phone string) dto.RegisterMemberInput {
	return dto.RegisterMemberInput{
		FirstName:     "أمين",
		LastName:      "بوقرة",
		Email:         "",
		Phone:         phone,
		Wilaya:        "الجزائر",
		Country:       "الجزائر",
		FirstJoinYear: 2024,
	}
}

func TestRegisterAllocatesFormattedNumber(t *testing.T) {
	service, _, _, _ := newTestService(t)

	member, err := service.Register(context.Background(), registerInput("+213550000001"))
	require.NoError(t, err)
	require.Equal(t, "162024000001", member.MembershipNumber)
	require.Equal(t, "active", member.Status)
}

func TestRegisterSequencesAreMonotonic(t *testing.T) {
	service, _, _, _ := newTestService(t)

	var numbers []string
	for i := 0; i < 5; i++ {
		member, err := service.Register(context.Background(), registerInput(fmt.Sprintf("+2135500000%02d", i)))
		require.NoError(t, err)
		numbers = append(numbers, member.MembershipNumber)
	}

	for i := 1; i < len(numbers); i++ {
		require.Less(t, numbers[i-1], numbers[i])
	}
}

func TestRegisterContinuesFromExistingMax(t *testing.T) {
	service, memberRepo, sequenceRepo, _ := newTestService(t)

	// Legacy rows: sequence values 1 and 3 already taken, counter
	// seeded at the observed max.
	memberRepo.members = []*repository.Member{
		{MembershipNumber: "162024000001", Wilaya: "الجزائر", Status: "active"},
		{MembershipNumber: "162024000003", Wilaya: "الجزائر", Status: "active"},
	}
	sequenceRepo.last["162024"] = 3

	member, err := service.Register(context.Background(), registerInput("+213550000099"))
	require.NoError(t, err)
	require.Equal(t, "162024000004", member.MembershipNumber)
}

func TestRegisterForeignMember(t *testing.T) {
	service, _, _, _ := newTestService(t)

	input := registerInput("+33650000001")
	input.Wilaya = "باريس"
	input.Country = "فرنسا"

	member, err := service.Register(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "882024000001", member.MembershipNumber)
}

func TestRegisterConcurrentAllocationsAreDistinct(t *testing.T) {
	service, _, _, _ := newTestService(t)

	const n = 32
	numbers := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			member, err := service.Register(context.Background(), registerInput(fmt.Sprintf("+213551%06d", i)))
			require.NoError(t, err)
			numbers <- member.MembershipNumber
		}(i)
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for number := range numbers {
		require.Len(t, number, 12)
		require.Equal(t, "162024", number[:6])
		require.False(t, seen[number], "membership number %s allocated twice", number)
		seen[number] = true
	}
	require.Len(t, seen, n)
}

func TestRegisterRetriesOnUniqueViolation(t *testing.T) {
	service, memberRepo, _, _ := newTestService(t)

	memberRepo.createErrs = []error{
		&pq.Error{Code: "23505"},
		&pq.Error{Code: "23505"},
	}

	member, err := service.Register(context.Background(), registerInput("+213550000001"))
	require.NoError(t, err)
	// Two collisions burned sequences 1 and 2.
	require.Equal(t, "162024000003", member.MembershipNumber)
}

func TestRegisterAllocationConflictAfterRetryBudget(t *testing.T) {
	service, memberRepo, _, _ := newTestService(t)

	memberRepo.createErrs = []error{
		&pq.Error{Code: "23505"},
		&pq.Error{Code: "23505"},
		&pq.Error{Code: "23505"},
	}

	_, err := service.Register(context.Background(), registerInput("+213550000001"))
	require.Error(t, err)

	var apiErr *svc.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestRegisterRejectsImplausibleYear(t *testing.T) {
	service, _, _, _ := newTestService(t)

	input := registerInput("+213550000001")
	input.FirstJoinYear = 1900

	_, err := service.Register(context.Background(), input)
	var apiErr *svc.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), registerInput("+213550000001"))
	require.NoError(t, err)

	_, err = service.Register(context.Background(), registerInput("+213550000001"))
	var apiErr *svc.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	service, _, _, mailer := newTestService(t)

	input := registerInput("+213550000001")
	input.Email = "amine@example.com"

	member, err := service.Register(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, member.MembershipNumber, mailer.sent[0].MembershipNumber)
}

func TestExportDefaultsToActiveStatus(t *testing.T) {
	service, memberRepo, _, _ := newTestService(t)

	memberRepo.members = []*repository.Member{
		{MembershipNumber: "162024000001", Wilaya: "الجزائر", Status: "active"},
		{MembershipNumber: "162024000002", Wilaya: "الجزائر", Status: "suspended"},
	}

	result, err := service.GetForExport(context.Background(), dto.MemberFilters{}, dto.QueryOptions{Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "162024000001", result.Items[0].MembershipNumber)
	require.Equal(t, "active", lo.FromPtr(memberRepo.lastListFilter.Status))
}

func TestExportHonorsExplicitStatusFilter(t *testing.T) {
	service, memberRepo, _, _ := newTestService(t)

	memberRepo.members = []*repository.Member{
		{MembershipNumber: "162024000001", Wilaya: "الجزائر", Status: "active"},
		{MembershipNumber: "162024000002", Wilaya: "الجزائر", Status: "suspended"},
	}

	result, err := service.GetForExport(context.Background(), dto.MemberFilters{
		Status: lo.ToPtr("suspended"),
	}, dto.QueryOptions{Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "162024000002", result.Items[0].MembershipNumber)
}

func TestRegisterInvalidatesBaladiyaCache(t *testing.T) {
	service, _, _, _ := newTestService(t)

	input := registerInput("+213550000001")
	input.Baladiya = "باب الوادي"

	_, err := service.Register(context.Background(), input)
	require.NoError(t, err)

	deleted := service.Cache.(*fakeCache).deleted
	require.Contains(t, deleted, "members:wilayas")
	require.Contains(t, deleted, "members:stats")
	require.Contains(t, deleted, "members:baladiyas:")
	require.Contains(t, deleted, "members:baladiyas:الجزائر")
}

func TestUpdateProfilePhoto(t *testing.T) {
	service, _, _, _ := newTestService(t)

	registered, err := service.Register(context.Background(), registerInput("+213550000001"))
	require.NoError(t, err)

	member, err := service.UpdateProfilePhoto(context.Background(), registered.MembershipNumber, dto.UpdateProfilePhotoInput{
		StorageID: "photo-1",
	})
	require.NoError(t, err)
	require.Equal(t, "https://assets.test/photo-1", member.ProfilePhotoURL)
	require.Empty(t, service.Storage.(*fakeStorage).deleted)
}

func TestUpdateProfilePhotoSupersedesPriorObject(t *testing.T) {
	service, _, _, _ := newTestService(t)

	registered, err := service.Register(context.Background(), registerInput("+213550000001"))
	require.NoError(t, err)

	_, err = service.UpdateProfilePhoto(context.Background(), registered.MembershipNumber, dto.UpdateProfilePhotoInput{StorageID: "photo-1"})
	require.NoError(t, err)

	member, err := service.UpdateProfilePhoto(context.Background(), registered.MembershipNumber, dto.UpdateProfilePhotoInput{StorageID: "photo-2"})
	require.NoError(t, err)

	require.Equal(t, "https://assets.test/photo-2", member.ProfilePhotoURL)
	require.Equal(t, []string{"photo-1"}, service.Storage.(*fakeStorage).deleted)
}

func TestUpdateProfilePhotoMemberNotFound(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.UpdateProfilePhoto(context.Background(), "999999999999", dto.UpdateProfilePhotoInput{StorageID: "photo-1"})
	var apiErr *svc.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestExportRejectsUnknownStatus(t *testing.T) {
	service, _, _, _ := newTestService(t)

	_, err := service.GetForExport(context.Background(), dto.MemberFilters{
		Status: lo.ToPtr("ghost"),
	}, dto.QueryOptions{Limit: 20})

	var apiErr *svc.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestDownloadStats(t *testing.T) {
	service, memberRepo, _, _ := newTestService(t)

	memberRepo.members = []*repository.Member{
		{MembershipNumber: "162024000001", Wilaya: "الجزائر", Status: "active"},
		{MembershipNumber: "162024000002", Wilaya: "الجزائر", Status: "active"},
		{MembershipNumber: "312024000001", Wilaya: "وهران", Status: "inactive"},
	}

	stats, err := service.GetDownloadStats(context.Background(), dto.MemberFilters{})
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Total)
	require.Len(t, stats.ByWilaya, 2)
}
