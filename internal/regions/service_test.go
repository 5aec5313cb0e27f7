package regions

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/enums"
	pkgerrors "github.com/temankemah/temankemah-backend/pkg/errors"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type fakeRegionRepo struct {
	regions map[uuid.UUID]*models.Region
	members []models.RegionMember
}

func newFakeRegionRepo() *fakeRegionRepo {
	return &fakeRegionRepo{regions: map[uuid.UUID]*models.Region{}}
}

func (f *fakeRegionRepo) Create(_ context.Context, region *models.Region) error {
	for _, existing := range f.regions {
		if existing.Name == region.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if region.ID == uuid.Nil {
		region.ID = uuid.New()
	}
	f.regions[region.ID] = region
	return nil
}

func (f *fakeRegionRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Region, error) {
	region, ok := f.regions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *region
	return &clone, nil
}

func (f *fakeRegionRepo) ListByStatus(_ context.Context, status enums.RegionStatus) ([]models.Region, error) {
	var out []models.Region
	for _, region := range f.regions {
		if region.Status == status {
			out = append(out, *region)
		}
	}
	return out, nil
}

func (f *fakeRegionRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	region, ok := f.regions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.RegionStatus); ok {
		region.Status = status
	}
	if name, ok := updates["name"].(string); ok {
		region.Name = name
	}
	region.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRegionRepo) CountMembers(_ context.Context, regionID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range f.members {
		if m.RegionID == regionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRegionRepo) FindMember(_ context.Context, regionID, userID uuid.UUID) (*models.RegionMember, error) {
	for i := range f.members {
		if f.members[i].RegionID == regionID && f.members[i].UserID == userID {
			return &f.members[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRegionRepo) CreateMember(_ context.Context, member *models.RegionMember) error {
	for _, m := range f.members {
		if m.RegionID == member.RegionID && m.UserID == member.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	f.members = append(f.members, *member)
	return nil
}

func (f *fakeRegionRepo) UpdateMemberRole(_ context.Context, regionID, userID uuid.UUID, role enums.RegionRole) error {
	for i := range f.members {
		if f.members[i].RegionID == regionID && f.members[i].UserID == userID {
			f.members[i].Role = role
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRegionRepo) DeleteMember(_ context.Context, regionID, userID uuid.UUID) error {
	kept := f.members[:0]
	for _, m := range f.members {
		if !(m.RegionID == regionID && m.UserID == userID) {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeRegionRepo) ListMembers(_ context.Context, regionID uuid.UUID) ([]models.RegionMember, error) {
	var out []models.RegionMember
	for _, m := range f.members {
		if m.RegionID == regionID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, filename string, _ io.Reader) (*cdn.UploadResult, error) {
	return &cdn.UploadResult{
		PublicID:  "temankemah/" + filename,
		SecureURL: "https://cdn.example.com/v1/temankemah/" + filename + ".jpg",
	}, nil
}

type noopQueue struct{}

func (noopQueue) QueueDeletion(_ context.Context, _ string, _ string) {}

func (noopQueue) QueueDeletionByURL(_ context.Context, _ string, _ string) {}

func testService(t *testing.T, repo *fakeRegionRepo) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(ServiceParams{Repo: repo, CDN: fakeUploader{}, Deletions: noopQueue{}, Logger: logg})
	require.NoError(t, err)
	return svc
}

func TestCreateSeatsCreatorAsRegionAdmin(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)
	creatorID := uuid.New()

	dto, err := svc.Create(context.Background(), creatorID, CreateRegionRequest{Name: "Jawa Barat"})
	require.NoError(t, err)
	assert.Equal(t, enums.RegionStatusPending, dto.Status)
	assert.Equal(t, int64(1), dto.MemberCount)

	member, err := repo.FindMember(context.Background(), dto.ID, creatorID)
	require.NoError(t, err)
	assert.Equal(t, enums.RegionRoleAdmin, member.Role)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)

	_, err := svc.Create(context.Background(), uuid.New(), CreateRegionRequest{Name: "Bali"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), CreateRegionRequest{Name: "Bali"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestApproveOnlyPendingRegions(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateRegionRequest{Name: "Sumatra Utara"})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RegionStatusActive, approved.Status)

	_, err = svc.Approve(context.Background(), dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestJoinRequiresActiveRegion(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateRegionRequest{Name: "Kalimantan Timur"})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), uuid.New(), dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	_, err = svc.Approve(context.Background(), dto.ID)
	require.NoError(t, err)

	member, err := svc.Join(context.Background(), uuid.New(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RegionRoleMember, member.Role)
}

func TestJoinTwiceConflicts(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)
	userID := uuid.New()

	dto, _ := svc.Create(context.Background(), uuid.New(), CreateRegionRequest{Name: "Yogyakarta"})
	_, err := svc.Approve(context.Background(), dto.ID)
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), userID, dto.ID)
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), userID, dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestSetMemberRoleRequiresRegionAdmin(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)
	creatorID := uuid.New()
	memberID := uuid.New()

	dto, _ := svc.Create(context.Background(), creatorID, CreateRegionRequest{Name: "Sulawesi Selatan"})
	_, err := svc.Approve(context.Background(), dto.ID)
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), memberID, dto.ID)
	require.NoError(t, err)

	err = svc.SetMemberRole(context.Background(), memberID, false, dto.ID, memberID, enums.RegionRoleAdmin)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())

	err = svc.SetMemberRole(context.Background(), creatorID, false, dto.ID, memberID, enums.RegionRoleAdmin)
	require.NoError(t, err)

	promoted, err := repo.FindMember(context.Background(), dto.ID, memberID)
	require.NoError(t, err)
	assert.Equal(t, enums.RegionRoleAdmin, promoted.Role)
}

func TestLeaveRemovesMembership(t *testing.T) {
	repo := newFakeRegionRepo()
	svc := testService(t, repo)
	userID := uuid.New()

	dto, _ := svc.Create(context.Background(), uuid.New(), CreateRegionRequest{Name: "Nusa Tenggara Barat"})
	_, err := svc.Approve(context.Background(), dto.ID)
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), userID, dto.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(context.Background(), userID, dto.ID))

	err = svc.Leave(context.Background(), userID, dto.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
