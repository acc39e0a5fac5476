package members

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/adl-parti/membership-backend/internal/config"
	"github.com/adl-parti/membership-backend/internal/constants"
	"github.com/adl-parti/membership-backend/internal/dto"
	"github.com/adl-parti/membership-backend/internal/repository"
	svc "github.com/adl-parti/membership-backend/internal/services"
	"github.com/adl-parti/membership-backend/pkg/cache"
	"github.com/adl-parti/membership-backend/pkg/email"
	"github.com/adl-parti/membership-backend/pkg/logger"
	"github.com/adl-parti/membership-backend/pkg/storage"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

var (
	_ MemberRepository   = (*repository.MemberRepository)(nil)
	_ SequenceRepository = (*repository.SequenceRepository)(nil)
	_ CachePkg           = (*cache.Redis)(nil)
	_ Mailer             = (*email.Email)(nil)
	_ StoragePkg         = (*storage.Storage)(nil)
)

type MemberRepository interface {
	Create(ctx context.Context, member *repository.Member, tx *sqlx.Tx) (*repository.Member, error)
	Get(ctx context.Context, filter repository.MemberRepositoryFilter) (*repository.Member, error)
	Exists(ctx context.Context, filter repository.MemberRepositoryFilter) (bool, error)
	List(ctx context.Context, filter repository.MemberRepositoryFilter, opts repository.QueryOptions) (*repository.ListResult[repository.Member], error)
	CountByStatus(ctx context.Context, filter repository.MemberRepositoryFilter) ([]*repository.StatusCount, error)
	CountByWilaya(ctx context.Context, filter repository.MemberRepositoryFilter) ([]*repository.WilayaCount, error)
	DistinctWilayas(ctx context.Context) ([]string, error)
	DistinctBaladiyas(ctx context.Context, wilaya *string) ([]string, error)
	UpdateProfilePhoto(ctx context.Context, membershipNumber, storageID string) error
}

type SequenceRepository interface {
	Next(ctx context.Context, divisionCode string, year int, tx *sqlx.Tx) (int64, error)
}

type CachePkg interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Mailer interface {
	SendWelcome(ctx context.Context, to string, data email.WelcomeEmailData) error
}

type StoragePkg interface {
	GetURL(ctx context.Context, storageID string) (string, error)
	Delete(ctx context.Context, storageID string) error
}

const (
	cacheKeyWilayas       = "members:wilayas"
	cacheKeyBaladiyas     = "members:baladiyas:"
	cacheKeyDownloadStats = "members:stats"

	lookupCacheTTL = 10 * time.Minute
	statsCacheTTL  = 1 * time.Minute
)

type Member struct {
	DB           *sqlx.DB
	Config       *config.Config
	MemberRepo   MemberRepository
	SequenceRepo SequenceRepository
	Cache        CachePkg
	Mailer       Mailer
	Storage      StoragePkg
	Logger       *logger.Logger
}

func New(db *sqlx.DB, cfg *config.Config, memberRepo MemberRepository, sequenceRepo SequenceRepository, cachePkg CachePkg, mailer Mailer, storagePkg StoragePkg, logger *logger.Logger) *Member {
	return &Member{
		DB:           db,
		Config:       cfg,
		MemberRepo:   memberRepo,
		SequenceRepo: sequenceRepo,
		Cache:        cachePkg,
		Mailer:       mailer,
		Storage:      storagePkg,
		Logger:       logger,
	}
}

// Register allocates a membership number and persists the member. The
// sequence increment and the member insert share one transaction, so a
// number is either assigned exactly once or not at all. The unique
// index on membership_number backstops the counter; a violation there
// re-runs the allocation up to the retry budget.
func (m *Member) Register(ctx context.Context, input dto.RegisterMemberInput) (*dto.Member, error) {
	if err := validateJoinYear(input.FirstJoinYear); err != nil {
		return nil, err
	}

	divisionCode, err := DeriveDivisionCode(input.Wilaya, input.Country)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		emailExists, err := m.MemberRepo.Exists(ctx, repository.MemberRepositoryFilter{
			Email: &input.Email,
		})
		if err != nil {
			return nil, err
		}
		if emailExists {
			return nil, &svc.APIError{
				Status:  http.StatusConflict,
				Message: "Email already exists",
			}
		}
	}

	phoneExists, err := m.MemberRepo.Exists(ctx, repository.MemberRepositoryFilter{
		Phone: &input.Phone,
	})
	if err != nil {
		return nil, err
	}
	if phoneExists {
		return nil, &svc.APIError{
			Status:  http.StatusConflict,
			Message: "Phone number already exists",
		}
	}

	var created *repository.Member
	for attempt := 0; ; attempt++ {
		created, err = m.allocateAndCreate(ctx, divisionCode, input)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) && attempt < allocateRetryBudget-1 {
			m.Logger.Warn().
				Str("division_code", divisionCode).
				Int("year", input.FirstJoinYear).
				Int("attempt", attempt+1).
				Msg("membership number collision, retrying allocation")
			continue
		}
		if repository.IsUniqueViolation(err) {
			return nil, &svc.APIError{
				Status:  http.StatusConflict,
				Message: "could not allocate a unique membership number",
			}
		}
		return nil, err
	}

	m.invalidateLookups(ctx, created.Wilaya)

	if input.Email != "" {
		if err := m.Mailer.SendWelcome(ctx, input.Email, email.WelcomeEmailData{
			FirstName:        created.FirstName,
			LastName:         created.LastName,
			MembershipNumber: created.MembershipNumber,
		}); err != nil {
			m.Logger.Error().Err(err).
				Str("membership_number", created.MembershipNumber).
				Msg("failed to send welcome email")
		}
	}

	return m.mapRepositoryToDTO(ctx, created), nil
}

func (m *Member) allocateAndCreate(ctx context.Context, divisionCode string, input dto.RegisterMemberInput) (*repository.Member, error) {
	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sequence, err := m.SequenceRepo.Next(ctx, divisionCode, input.FirstJoinYear, tx)
	if err != nil {
		return nil, err
	}

	member, err := m.MemberRepo.Create(ctx, &repository.Member{
		MembershipNumber: FormatMembershipNumber(divisionCode, input.FirstJoinYear, sequence),
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email: sql.NullString{
			String: input.Email,
			Valid:  input.Email != "",
		},
		Phone: sql.NullString{
			String: input.Phone,
			Valid:  input.Phone != "",
		},
		Wilaya: input.Wilaya,
		Baladiya: sql.NullString{
			String: input.Baladiya,
			Valid:  input.Baladiya != "",
		},
		Country:       input.Country,
		FirstJoinYear: input.FirstJoinYear,
		Status:        string(constants.MemberStatusActive),
	}, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return member, nil
}

func (m *Member) GetByNumber(ctx context.Context, membershipNumber string) (*dto.Member, error) {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		MembershipNumber: &membershipNumber,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &svc.APIError{
				Status:  http.StatusNotFound,
				Message: "member not found",
			}
		}
		return nil, err
	}

	return m.mapRepositoryToDTO(ctx, member), nil
}

// UpdateProfilePhoto attaches an uploaded object to the member's card
// photo, superseding any prior one. The old storage object is removed
// only after the column update succeeds.
func (m *Member) UpdateProfilePhoto(ctx context.Context, membershipNumber string, input dto.UpdateProfilePhotoInput) (*dto.Member, error) {
	member, err := m.MemberRepo.Get(ctx, repository.MemberRepositoryFilter{
		MembershipNumber: &membershipNumber,
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &svc.APIError{
				Status:  http.StatusNotFound,
				Message: "member not found",
			}
		}
		return nil, err
	}

	if err := m.MemberRepo.UpdateProfilePhoto(ctx, membershipNumber, input.StorageID); err != nil {
		return nil, err
	}

	if member.ProfilePhotoID.Valid && member.ProfilePhotoID.String != input.StorageID {
		if err := m.Storage.Delete(ctx, member.ProfilePhotoID.String); err != nil {
			m.Logger.Warn().Err(err).
				Str("storage_id", member.ProfilePhotoID.String).
				Msg("failed to delete superseded profile photo")
		}
	}

	member.ProfilePhotoID = sql.NullString{String: input.StorageID, Valid: true}
	return m.mapRepositoryToDTO(ctx, member), nil
}

// GetForExport returns the filtered export projection. Status defaults
// to active when the caller supplies none.
func (m *Member) GetForExport(ctx context.Context, filters dto.MemberFilters, opts dto.QueryOptions) (*dto.ListResponse[dto.Member], error) {
	if err := validateStatusFilter(filters.Status); err != nil {
		return nil, err
	}

	result, err := m.MemberRepo.List(ctx, toRepositoryFilter(filters), repository.QueryOptions{
		Limit:  opts.Limit,
		Cursor: opts.Cursor,
		Sort:   opts.Sort,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.Member, 0, len(result.Items))
	for _, member := range result.Items {
		items = append(items, *m.mapRepositoryToDTO(ctx, member))
	}

	return &dto.ListResponse[dto.Member]{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

// GetForCards returns the card-face projection for card printing.
func (m *Member) GetForCards(ctx context.Context, filters dto.MemberFilters, opts dto.QueryOptions) (*dto.ListResponse[dto.CardMember], error) {
	if err := validateStatusFilter(filters.Status); err != nil {
		return nil, err
	}

	result, err := m.MemberRepo.List(ctx, toRepositoryFilter(filters), repository.QueryOptions{
		Limit:  opts.Limit,
		Cursor: opts.Cursor,
		Sort:   opts.Sort,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.CardMember, 0, len(result.Items))
	for _, member := range result.Items {
		card := dto.CardMember{
			MembershipNumber: member.MembershipNumber,
			FirstName:        member.FirstName,
			LastName:         member.LastName,
			Wilaya:           member.Wilaya,
		}
		if member.ProfilePhotoID.Valid {
			card.ProfilePhotoURL = m.resolvePhotoURL(ctx, member.ProfilePhotoID.String)
		}
		items = append(items, card)
	}

	return &dto.ListResponse[dto.CardMember]{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

func (m *Member) GetDownloadStats(ctx context.Context, filters dto.MemberFilters) (*dto.DownloadStats, error) {
	if err := validateStatusFilter(filters.Status); err != nil {
		return nil, err
	}

	// Unfiltered stats are hot on the dashboard, cache those.
	cacheable := filters == (dto.MemberFilters{})
	if cacheable {
		var cached dto.DownloadStats
		if err := m.Cache.Get(ctx, cacheKeyDownloadStats, &cached); err == nil {
			return &cached, nil
		}
	}

	repoFilter := toRepositoryFilter(filters)
	// Stats count every status unless the caller narrows one.
	if filters.Status == nil {
		repoFilter.Status = nil
	}

	byStatus, err := m.MemberRepo.CountByStatus(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	byWilaya, err := m.MemberRepo.CountByWilaya(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	stats := &dto.DownloadStats{
		ByStatus: make([]dto.StatusCount, 0, len(byStatus)),
		ByWilaya: make([]dto.WilayaCount, 0, len(byWilaya)),
	}
	for _, sc := range byStatus {
		stats.Total += sc.Count
		stats.ByStatus = append(stats.ByStatus, dto.StatusCount{Status: sc.Status, Count: sc.Count})
	}
	for _, wc := range byWilaya {
		stats.ByWilaya = append(stats.ByWilaya, dto.WilayaCount{Wilaya: wc.Wilaya, Count: wc.Count})
	}

	if cacheable {
		if err := m.Cache.Set(ctx, cacheKeyDownloadStats, stats, statsCacheTTL); err != nil {
			m.Logger.Warn().Err(err).Msg("failed to cache download stats")
		}
	}

	return stats, nil
}

func (m *Member) AvailableWilayas(ctx context.Context) ([]string, error) {
	var wilayas []string
	if err := m.Cache.Get(ctx, cacheKeyWilayas, &wilayas); err == nil {
		return wilayas, nil
	}

	wilayas, err := m.MemberRepo.DistinctWilayas(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.Cache.Set(ctx, cacheKeyWilayas, wilayas, lookupCacheTTL); err != nil {
		m.Logger.Warn().Err(err).Msg("failed to cache wilaya list")
	}

	return wilayas, nil
}

func (m *Member) AvailableBaladiyas(ctx context.Context, wilaya *string) ([]string, error) {
	key := cacheKeyBaladiyas + lo.FromPtr(wilaya)

	var baladiyas []string
	if err := m.Cache.Get(ctx, key, &baladiyas); err == nil {
		return baladiyas, nil
	}

	baladiyas, err := m.MemberRepo.DistinctBaladiyas(ctx, wilaya)
	if err != nil {
		return nil, err
	}

	if err := m.Cache.Set(ctx, key, baladiyas, lookupCacheTTL); err != nil {
		m.Logger.Warn().Err(err).Msg("failed to cache baladiya list")
	}

	return baladiyas, nil
}

// invalidateLookups drops the cached lookup lists a new member in the
// given wilaya can change: the wilaya list, the stats counters, the
// wilaya-scoped baladiya list and the unscoped one.
func (m *Member) invalidateLookups(ctx context.Context, wilaya string) {
	keys := []string{
		cacheKeyWilayas,
		cacheKeyDownloadStats,
		cacheKeyBaladiyas,
		cacheKeyBaladiyas + wilaya,
	}
	if err := m.Cache.Delete(ctx, keys...); err != nil {
		m.Logger.Warn().Err(err).Msg("failed to invalidate lookup caches")
	}
}

func validateStatusFilter(status *string) error {
	if status != nil && !constants.IsValidMemberStatus(*status) {
		return &svc.APIError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("unknown member status: %q", *status),
		}
	}
	return nil
}

func toRepositoryFilter(filters dto.MemberFilters) repository.MemberRepositoryFilter {
	status := lo.FromPtrOr(filters.Status, string(constants.MemberStatusActive))
	return repository.MemberRepositoryFilter{
		Wilaya:           filters.Wilaya,
		Baladiya:         filters.Baladiya,
		Status:           &status,
		SubscriptionType: filters.SubscriptionType,
		SubscriptionYear: filters.SubscriptionYear,
		FirstJoinYear:    filters.FirstJoinYear,
	}
}

func (m *Member) resolvePhotoURL(ctx context.Context, storageID string) string {
	url, err := m.Storage.GetURL(ctx, storageID)
	if err != nil {
		m.Logger.Warn().Err(err).Str("storage_id", storageID).Msg("failed to resolve photo url")
		return ""
	}
	return url
}

func (m *Member) mapRepositoryToDTO(ctx context.Context, member *repository.Member) *dto.Member {
	out := &dto.Member{
		MembershipNumber: member.MembershipNumber,
		FirstName:        member.FirstName,
		LastName:         member.LastName,
		Email:            member.Email.String,
		Phone:            member.Phone.String,
		Wilaya:           member.Wilaya,
		Baladiya:         member.Baladiya.String,
		Country:          member.Country,
		FirstJoinYear:    member.FirstJoinYear,
		Status:           member.Status,
		SubscriptionType: member.SubscriptionType.String,
		SubscriptionYear: int(member.SubscriptionYear.Int64),
		CreatedAt:        member.CreatedAt,
	}
	if member.ProfilePhotoID.Valid {
		out.ProfilePhotoURL = m.resolvePhotoURL(ctx, member.ProfilePhotoID.String)
	}
	return out
}
