package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/payroll-lab/backend/internal/common"
	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/internal/model"
	"github.com/payroll-lab/backend/internal/repository"
	"github.com/payroll-lab/backend/pkg/enum"
	"github.com/payroll-lab/backend/pkg/errorx"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PlatformDomain interface {
	Init(context.Context, *model.InitPlatformRequest) (*model.InitPlatformResponse, error)
	InitSecurityConfig(context.Context, *model.InitSecurityConfigRequest) (*model.InitSecurityConfigResponse, error)
	Get(context.Context, *model.GetPlatformRequest) (*model.GetPlatformResponse, error)
	Pause(context.Context, *model.PausePlatformRequest) (*model.PausePlatformResponse, error)
	Unpause(context.Context, *model.UnpausePlatformRequest) (*model.UnpausePlatformResponse, error)
	InitiateAdminTransfer(context.Context, *model.InitiateAdminTransferRequest) (*model.InitiateAdminTransferResponse, error)
	CompleteAdminTransfer(context.Context, *model.CompleteAdminTransferRequest) (*model.CompleteAdminTransferResponse, error)
	CancelAdminTransfer(context.Context, *model.CancelAdminTransferRequest) (*model.CancelAdminTransferResponse, error)
	UpdateFee(context.Context, *model.UpdatePlatformFeeRequest) (*model.UpdatePlatformFeeResponse, error)
	AddToBlacklist(context.Context, *model.AddToBlacklistRequest) (*model.AddToBlacklistResponse, error)
	RemoveFromBlacklist(context.Context, *model.RemoveFromBlacklistRequest) (*model.RemoveFromBlacklistResponse, error)
	UpdateSecurityConfig(context.Context, *model.UpdateSecurityConfigRequest) (*model.UpdateSecurityConfigResponse, error)
}

type platformDomain struct {
	platformRepo       repository.PlatformRepository
	securityConfigRepo repository.SecurityConfigRepository
	blacklistRepo      repository.BlacklistRepository
}

func NewPlatformDomain(
	platformRepo repository.PlatformRepository,
	securityConfigRepo repository.SecurityConfigRepository,
	blacklistRepo repository.BlacklistRepository,
) *platformDomain {
	return &platformDomain{
		platformRepo:       platformRepo,
		securityConfigRepo: securityConfigRepo,
		blacklistRepo:      blacklistRepo,
	}
}

// Init creates the platform singleton. The caller becomes the platform
// admin and must call InitSecurityConfig before the raffle operations run.
func (d *platformDomain) Init(
	ctx context.Context, req *model.InitPlatformRequest,
) (*model.InitPlatformResponse, error) {
	wallet := xcontext.RequestWallet(ctx)
	if wallet == "" {
		return nil, errorx.New(errorx.Unauthorized, "Wallet address is required")
	}

	feeBps := req.FeeBps
	if feeBps == 0 {
		feeBps = common.DefaultPlatformFeeBps
	}

	if feeBps > common.MaxPlatformFeeBps {
		return nil, errorx.New(errorx.PrizeAmountExceedsMax,
			"Fee exceeds the maximum of %d bps", common.MaxPlatformFeeBps)
	}

	if _, err := d.platformRepo.Get(ctx); err == nil {
		return nil, errorx.New(errorx.AccountAlreadyInitialized, "Platform is already initialized")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get platform: %v", err)
		return nil, errorx.Unknown
	}

	platform := &entity.Platform{
		Admin:  wallet,
		FeeBps: feeBps,
	}

	if err := d.platformRepo.Create(ctx, platform); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create platform: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitPlatformResponse{Platform: convertPlatform(platform)}, nil
}

// InitSecurityConfig creates the security config singleton with its
// defaults. Only the platform admin may call it, and only once.
func (d *platformDomain) InitSecurityConfig(
	ctx context.Context, req *model.InitSecurityConfigRequest,
) (*model.InitSecurityConfigResponse, error) {
	if _, err := d.loadPlatformForAdmin(ctx); err != nil {
		return nil, err
	}

	if _, err := d.securityConfigRepo.Get(ctx); err == nil {
		return nil, errorx.New(errorx.AccountAlreadyInitialized,
			"Security config is already initialized")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get security config: %v", err)
		return nil, errorx.Unknown
	}

	config := &entity.SecurityConfig{
		RateLimitSeconds:      int64(common.PurchaseRateLimit.Seconds()),
		RateLimitingEnabled:   true,
		BlacklistEnabled:      true,
		VrfRequired:           false,
		MinBlockConfirmations: common.MinBlockConfirmations,
		MaxTicketsPerWallet:   common.MaxTicketsPerWallet,
		UpdatedBy:             xcontext.RequestWallet(ctx),
	}

	if err := d.securityConfigRepo.Create(ctx, config); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create security config: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitSecurityConfigResponse{SecurityConfig: convertSecurityConfig(config)}, nil
}

func (d *platformDomain) Get(
	ctx context.Context, req *model.GetPlatformRequest,
) (*model.GetPlatformResponse, error) {
	platform, err := d.platformRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AccountNotInitialized, "Platform is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get platform: %v", err)
		return nil, errorx.Unknown
	}

	config, err := d.securityConfigRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AccountNotInitialized, "Security config is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get security config: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPlatformResponse{
		Platform:       convertPlatform(platform),
		SecurityConfig: convertSecurityConfig(config),
	}, nil
}

func (d *platformDomain) Pause(
	ctx context.Context, req *model.PausePlatformRequest,
) (*model.PausePlatformResponse, error) {
	platform, err := d.loadPlatformForAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if platform.IsPaused {
		return nil, errorx.New(errorx.RaffleAlreadyPaused, "Platform is already paused")
	}

	wallet := xcontext.RequestWallet(ctx)
	err = d.platformRepo.Update(ctx, map[string]any{
		"is_paused":      true,
		"last_paused_at": xcontext.Now(ctx),
		"paused_by":      sql.NullString{String: wallet, Valid: true},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pause platform: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Warnf("Platform paused by %s", wallet)
	return &model.PausePlatformResponse{}, nil
}

func (d *platformDomain) Unpause(
	ctx context.Context, req *model.UnpausePlatformRequest,
) (*model.UnpausePlatformResponse, error) {
	platform, err := d.loadPlatformForAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if !platform.IsPaused {
		return nil, errorx.New(errorx.RaffleNotPaused, "Platform is not paused")
	}

	err = d.platformRepo.Update(ctx, map[string]any{
		"is_paused": false,
		"paused_by": sql.NullString{},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unpause platform: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnpausePlatformResponse{}, nil
}

func (d *platformDomain) InitiateAdminTransfer(
	ctx context.Context, req *model.InitiateAdminTransferRequest,
) (*model.InitiateAdminTransferResponse, error) {
	platform, err := d.loadPlatformForAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if req.NewAdmin == platform.Admin {
		return nil, errorx.New(errorx.InvalidPendingAdmin, "Cannot transfer admin to yourself")
	}

	now := xcontext.Now(ctx)
	err = d.platformRepo.Update(ctx, map[string]any{
		"pending_admin":               sql.NullString{String: req.NewAdmin, Valid: true},
		"admin_transfer_initiated_at": now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initiate admin transfer: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Admin transfer initiated to %s", req.NewAdmin)
	return &model.InitiateAdminTransferResponse{}, nil
}

// CompleteAdminTransfer must be called by the pending admin once the
// 24 hour timelock has elapsed.
func (d *platformDomain) CompleteAdminTransfer(
	ctx context.Context, req *model.CompleteAdminTransferRequest,
) (*model.CompleteAdminTransferResponse, error) {
	platform, err := d.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}

	wallet := xcontext.RequestWallet(ctx)
	if !platform.PendingAdmin.Valid || platform.PendingAdmin.String != wallet {
		return nil, errorx.New(errorx.InvalidPendingAdmin, "Caller is not the pending admin")
	}

	now := xcontext.Now(ctx)
	if !platform.CanCompleteTransfer(now, common.AdminTimelock) {
		return nil, errorx.New(errorx.TimelockNotExpired, "Admin transfer timelock has not expired")
	}

	err = d.platformRepo.Update(ctx, map[string]any{
		"admin":                       wallet,
		"pending_admin":               sql.NullString{},
		"admin_transfer_initiated_at": time.Time{},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete admin transfer: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Admin transfer completed, new admin is %s", wallet)
	return &model.CompleteAdminTransferResponse{Admin: wallet}, nil
}

func (d *platformDomain) CancelAdminTransfer(
	ctx context.Context, req *model.CancelAdminTransferRequest,
) (*model.CancelAdminTransferResponse, error) {
	platform, err := d.loadPlatformForAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if !platform.PendingAdmin.Valid {
		return nil, errorx.New(errorx.AdminTransferNotInitiated, "No admin transfer is in progress")
	}

	err = d.platformRepo.Update(ctx, map[string]any{
		"pending_admin":               sql.NullString{},
		"admin_transfer_initiated_at": time.Time{},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel admin transfer: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelAdminTransferResponse{}, nil
}

func (d *platformDomain) UpdateFee(
	ctx context.Context, req *model.UpdatePlatformFeeRequest,
) (*model.UpdatePlatformFeeResponse, error) {
	if _, err := d.loadPlatformForAdmin(ctx); err != nil {
		return nil, err
	}

	if req.FeeBps > common.MaxPlatformFeeBps {
		return nil, errorx.New(errorx.PrizeAmountExceedsMax,
			"Fee exceeds the maximum of %d bps", common.MaxPlatformFeeBps)
	}

	if err := d.platformRepo.Update(ctx, map[string]any{"fee_bps": req.FeeBps}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update platform fee: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdatePlatformFeeResponse{}, nil
}

func (d *platformDomain) AddToBlacklist(
	ctx context.Context, req *model.AddToBlacklistRequest,
) (*model.AddToBlacklistResponse, error) {
	if _, err := d.loadPlatformForAdmin(ctx); err != nil {
		return nil, err
	}

	reason, err := enum.ToEnum[entity.BlacklistReason](req.Reason)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid blacklist reason")
	}

	existing, err := d.blacklistRepo.Get(ctx, req.Wallet)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get blacklist entry: %v", err)
		return nil, errorx.Unknown
	}

	wallet := xcontext.RequestWallet(ctx)
	now := xcontext.Now(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.blacklistRepo.Save(ctx, &entity.BlacklistEntry{
		Wallet:        req.Wallet,
		BlacklistedAt: now,
		BlacklistedBy: wallet,
		Reason:        reason,
		IsActive:      true,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save blacklist entry: %v", err)
		return nil, errorx.Unknown
	}

	// Re-adding an inactive entry reactivates it, the counter only moves
	// when the active state actually changes.
	if existing == nil || !existing.IsActive {
		if err := d.platformRepo.Increase(ctx, "blacklist_count", 1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update blacklist count: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	xcontext.Logger(ctx).Warnf("Wallet %s blacklisted for %s", req.Wallet, reason)
	return &model.AddToBlacklistResponse{}, nil
}

func (d *platformDomain) RemoveFromBlacklist(
	ctx context.Context, req *model.RemoveFromBlacklistRequest,
) (*model.RemoveFromBlacklistResponse, error) {
	if _, err := d.loadPlatformForAdmin(ctx); err != nil {
		return nil, err
	}

	entry, err := d.blacklistRepo.Get(ctx, req.Wallet)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.WalletBlacklisted, "Wallet is not blacklisted")
		}

		xcontext.Logger(ctx).Errorf("Cannot get blacklist entry: %v", err)
		return nil, errorx.Unknown
	}

	if !entry.IsActive {
		return nil, errorx.New(errorx.WalletBlacklisted, "Wallet is not blacklisted")
	}

	entry.IsActive = false

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.blacklistRepo.Save(ctx, entry); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update blacklist entry: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.platformRepo.Decrease(ctx, "blacklist_count", 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update blacklist count: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.RemoveFromBlacklistResponse{}, nil
}

func (d *platformDomain) UpdateSecurityConfig(
	ctx context.Context, req *model.UpdateSecurityConfigRequest,
) (*model.UpdateSecurityConfigResponse, error) {
	if _, err := d.loadPlatformForAdmin(ctx); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_by": xcontext.RequestWallet(ctx)}
	if req.RateLimitSeconds != nil {
		updates["rate_limit_seconds"] = *req.RateLimitSeconds
	}
	if req.RateLimitingEnabled != nil {
		updates["rate_limiting_enabled"] = *req.RateLimitingEnabled
	}
	if req.BlacklistEnabled != nil {
		updates["blacklist_enabled"] = *req.BlacklistEnabled
	}
	if req.VrfRequired != nil {
		updates["vrf_required"] = *req.VrfRequired
	}
	if req.MinBlockConfirmations != nil {
		updates["min_block_confirmations"] = *req.MinBlockConfirmations
	}
	if req.MaxTicketsPerWallet != nil {
		updates["max_tickets_per_wallet"] = *req.MaxTicketsPerWallet
	}

	if err := d.securityConfigRepo.Update(ctx, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update security config: %v", err)
		return nil, errorx.Unknown
	}

	config, err := d.securityConfigRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get security config: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateSecurityConfigResponse{SecurityConfig: convertSecurityConfig(config)}, nil
}

func (d *platformDomain) loadPlatform(ctx context.Context) (*entity.Platform, error) {
	platform, err := d.platformRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AccountNotInitialized, "Platform is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get platform: %v", err)
		return nil, errorx.Unknown
	}

	return platform, nil
}

func (d *platformDomain) loadPlatformForAdmin(ctx context.Context) (*entity.Platform, error) {
	platform, err := d.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}

	if err := common.RequireAdmin(platform, xcontext.RequestWallet(ctx)); err != nil {
		return nil, err
	}

	return platform, nil
}
