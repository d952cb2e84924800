package service

import (
	"context"
	"domainkeeper/internal/audit"
	"domainkeeper/internal/availability"
	"domainkeeper/internal/database"
	"domainkeeper/internal/export"
	"domainkeeper/internal/jobs"
	"domainkeeper/internal/queue"
	"domainkeeper/internal/storage"
	"domainkeeper/internal/types"
	"domainkeeper/logger"
	"errors"
	"fmt"
	errors2 "github.com/pkg/errors"
	"go.uber.org/zap"
	"strings"
	"time"
)

const whoisFileName = "status.txt"

type (
	DomainService interface {
		List(ctx context.Context, actor types.Actor, params types.ListParams) (*types.Page, error)
		Export(ctx context.Context, actor types.Actor, params types.ListParams, format string) (types.File, error)
		Settings(ctx context.Context) (*types.Settings, error)
		Get(ctx context.Context, actor types.Actor, id uint) (*types.Domain, error)
		Create(ctx context.Context, actor types.Actor, params types.CreateDomainParams) (*types.Domain, error)
		Register(ctx context.Context, params types.CreateDomainParams, report availability.Report) (*types.Domain, error)
		Update(ctx context.Context, actor types.Actor, id uint, params types.UpdateDomainParams) (*types.UpdateResult, error)
		Destroy(ctx context.Context, actor types.Actor, id uint) error
		BuyDomains(ctx context.Context, actor types.Actor, params types.BuyDomainsParams) error
		Whois(ctx context.Context, actor types.Actor, id uint) (*types.File, error)
	}

	Dependencies struct {
		Domains        database.DomainRepository
		Configurations database.ConfigurationRepository
		Verticals      database.VerticalRepository
		ChangeLogs     database.ChangeLogRepository
		Validator      availability.Validator
		Storage        storage.Storage
		Queue          queue.Dispatcher
		Jobs           *jobs.Env
		Notifier       jobs.BuyNotifier
	}

	domainService struct {
		Dependencies
		now func() time.Time
	}
)

func NewDomainService(deps Dependencies) DomainService {
	return &domainService{Dependencies: deps, now: time.Now}
}

func (d *domainService) List(ctx context.Context, actor types.Actor, params types.ListParams) (*types.Page, error) {
	page, err := d.Domains.List(ctx, database.ForActor(actor), params)
	if errors.Is(err, database.ErrInvalidSort) {
		return nil, NewValidationError("sort", err.Error())
	}
	return page, err
}

func (d *domainService) Export(ctx context.Context, actor types.Actor, params types.ListParams, format string) (types.File, error) {
	domains, err := d.Domains.All(ctx, database.ForActor(actor), params)
	if errors.Is(err, database.ErrInvalidSort) {
		return types.File{}, NewValidationError("sort", err.Error())
	}
	if err != nil {
		return types.File{}, err
	}
	return export.Render(export.ParseFormat(format), domains)
}

func (d *domainService) Settings(ctx context.Context) (*types.Settings, error) {
	configurations, err := d.Configurations.FindAll(ctx)
	if err != nil {
		return nil, errors2.Wrap(err, "failed to load configurations")
	}

	verticals, err := d.Verticals.Names(ctx)
	if err != nil {
		return nil, errors2.Wrap(err, "failed to load verticals")
	}

	return &types.Settings{Configurations: configurations, Verticals: verticals}, nil
}

func (d *domainService) Get(ctx context.Context, actor types.Actor, id uint) (*types.Domain, error) {
	domain, err := d.Domains.FindByID(ctx, database.ForActor(actor), id, "Webmaster", "UrlReport", "Vertical")
	if err != nil {
		return nil, notFound(err)
	}
	return domain, nil
}

func (d *domainService) Create(ctx context.Context, actor types.Actor, params types.CreateDomainParams) (*types.Domain, error) {
	params.Name = strings.ToLower(strings.TrimSpace(params.Name))

	if _, err := d.configuration(ctx, params.ConfigurationID); err != nil {
		return nil, err
	}

	exists, err := d.Domains.Exists(ctx, params.Name, params.Type)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("name", "The name has already been taken.")
	}

	report, err := d.Validator.Check(ctx, params.Name)
	if err != nil {
		logger.Warn("availability check failed, assuming unregistered",
			zap.String("domain", params.Name),
			zap.Error(err))
		report = availability.Report{CheckedAt: d.now()}
	}

	domain, err := d.Register(ctx, params, report)
	if errors.Is(err, ErrDomainExists) {
		return nil, NewValidationError("name", "The name has already been taken.")
	}
	if err != nil {
		return nil, err
	}

	if !params.AlreadyPurchased {
		d.Notifier.SendBuyDomainEmail(ctx, domain)
	}
	return domain, nil
}

// Register inserts a domain whose availability is known, stores its WHOIS answer,
// records the creation and queues its SSL registration
func (d *domainService) Register(ctx context.Context, params types.CreateDomainParams, report availability.Report) (*types.Domain, error) {
	cfg, err := d.configuration(ctx, params.ConfigurationID)
	if err != nil {
		return nil, err
	}

	exists, err := d.Domains.Exists(ctx, params.Name, params.Type)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDomainExists
	}

	domain := &types.Domain{
		Name:             params.Name,
		Type:             params.Type,
		StatusID:         types.DomainStatusRegistrationPending,
		ConfigurationID:  cfg.ID,
		VerticalID:       params.VerticalID,
		UserID:           params.UserID,
		AutoRenewal:      params.AutoRenewal,
		DisableOnVirus:   params.DisableOnVirus,
		NoTrafficRelease: params.NoTrafficRelease,
		Comment:          params.Comment,
	}
	if report.IsAvailable() {
		domain.StatusID = types.DomainStatusAvailable
	}
	if domain.UserID != nil {
		now := d.now()
		domain.AssignedAt = &now
	}

	if err := d.Domains.Create(ctx, domain); err != nil {
		if isDuplicate(err) {
			return nil, ErrDomainExists
		}
		return nil, errors2.Wrap(err, "failed to create domain")
	}

	if report.Whois != "" {
		d.storeWhois(ctx, domain, report)
	}

	d.writeLog(ctx, audit.NewDomainLogger(d.ChangeLogs), domain, types.DomainLogActionCreate)
	d.dispatchSSL(types.DomainActionAdd, domain.ID)

	domain.Configuration = cfg
	return domain, nil
}

func (d *domainService) Update(ctx context.Context, actor types.Actor, id uint, params types.UpdateDomainParams) (*types.UpdateResult, error) {
	status, err := types.ParseDomainStatus(params.Status)
	if err != nil {
		return nil, NewValidationError("status", "The selected status is invalid.")
	}

	domain, err := d.Domains.FindByID(ctx, database.ForActor(actor), id)
	if err != nil {
		return nil, notFound(err)
	}

	if domain.UserID == nil && params.UserID.Value != nil {
		now := d.now()
		domain.AssignedAt = &now
	}

	changeLog := audit.NewDomainLogger(d.ChangeLogs)
	if old, err := audit.Snapshot(domain); err == nil {
		changeLog.SetOld(old, domain.ID)
	}

	if params.UserID.Set {
		domain.UserID = params.UserID.Value
	}
	if params.VerticalID.Set {
		domain.VerticalID = params.VerticalID.Value
	}
	if params.AutoRenewal != nil {
		domain.AutoRenewal = *params.AutoRenewal
	}
	if params.DisableOnVirus != nil {
		domain.DisableOnVirus = *params.DisableOnVirus
	}
	if params.NoTrafficRelease != nil {
		domain.NoTrafficRelease = *params.NoTrafficRelease
	}
	if params.Comment != nil {
		domain.Comment = *params.Comment
	}

	result := &types.UpdateResult{Domain: domain}
	if status.IsAllowedManualChange(domain.StatusID) {
		domain.StatusID = status
	} else {
		result.StatusRejected = fmt.Sprintf("status cannot change from %s to %s", domain.StatusID, status)
		logger.Info("status change rejected",
			zap.Uint("domain_id", domain.ID),
			zap.String("from", domain.StatusID.String()),
			zap.String("to", status.String()))
	}

	if err := d.Domains.Save(ctx, domain); err != nil {
		return nil, errors2.Wrap(err, "failed to update domain")
	}
	d.writeLog(ctx, changeLog, domain, types.DomainLogActionUpdate)

	return result, nil
}

func (d *domainService) Destroy(ctx context.Context, actor types.Actor, id uint) error {
	domain, err := d.Domains.FindByID(ctx, database.ForActor(actor), id)
	if err != nil {
		return notFound(err)
	}

	if !domain.IsDisabled() {
		return ErrDomainNotDisabled
	}

	changeLog := audit.NewDomainLogger(d.ChangeLogs)
	if old, err := audit.Snapshot(domain); err == nil {
		changeLog.SetOld(old, domain.ID)
	}

	if err := d.Domains.Delete(ctx, domain); err != nil {
		return errors2.Wrap(err, "failed to delete domain")
	}

	if err := changeLog.Write(ctx, domain.ID, types.DomainLogActionDelete, nil); err != nil {
		logger.Error("failed to write change log", zap.Uint("domain_id", domain.ID), zap.Error(err))
	}
	d.dispatchSSL(types.DomainActionRemove, domain.ID)
	return nil
}

func (d *domainService) BuyDomains(ctx context.Context, actor types.Actor, params types.BuyDomainsParams) error {
	job := d.Jobs.GenerateDomains(d, params.Configurations, actor.ID())
	if err := d.Queue.Dispatch(job); err != nil {
		return errors2.Wrap(err, "failed to queue domain generation")
	}
	return nil
}

func (d *domainService) Whois(ctx context.Context, actor types.Actor, id uint) (*types.File, error) {
	domain, err := d.Domains.FindByID(ctx, database.ForActor(actor), id)
	if err != nil {
		return nil, notFound(err)
	}

	data := domain.WhoisData
	if data == nil {
		return nil, ErrNoWhois
	}

	if data.Location == "" {
		if data.Body == "" {
			return nil, ErrNoWhois
		}
		f := types.NewTextFile(whoisFileName, data.Body)
		return &f, nil
	}

	f, err := d.Storage.Get(ctx, data.Location)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoWhois
	}
	if err != nil {
		return nil, errors2.Wrap(err, "failed to read whois data")
	}
	f.Stat.Name = whoisFileName
	f.Stat.ContentType = "text/plain"
	return f, nil
}

func (d *domainService) configuration(ctx context.Context, id uint) (*types.DomainConfiguration, error) {
	cfg, err := d.Configurations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, NewValidationError("configuration_id", "The selected configuration id is invalid.")
		}
		return nil, err
	}
	return cfg, nil
}

// storeWhois keeps the WHOIS answer in blob storage, or inline when storage fails
func (d *domainService) storeWhois(ctx context.Context, domain *types.Domain, report availability.Report) {
	fetchedAt := report.CheckedAt
	if fetchedAt.IsZero() {
		fetchedAt = d.now()
	}
	data := &types.WhoisData{
		Server:     report.Server,
		Registered: report.Registered,
		FetchedAt:  fetchedAt,
	}

	location := storage.WhoisLocation(domain.ID, fetchedAt)
	if err := d.Storage.Save(ctx, location, types.NewTextFile(whoisFileName, report.Whois)); err != nil {
		logger.Warn("failed to store whois data, keeping it inline",
			zap.Uint("domain_id", domain.ID),
			zap.Error(err))
		data.Body = report.Whois
	} else {
		data.Location = location
	}

	domain.WhoisData = data
	if err := d.Domains.Save(ctx, domain); err != nil {
		logger.Error("failed to save whois data", zap.Uint("domain_id", domain.ID), zap.Error(err))
	}
}

func (d *domainService) writeLog(ctx context.Context, changeLog *audit.EntityLogger, domain *types.Domain, action types.DomainLogAction) {
	values, err := audit.Snapshot(domain)
	if err == nil {
		err = changeLog.Write(ctx, domain.ID, action, values)
	}
	if err != nil {
		logger.Error("failed to write change log",
			zap.Uint("domain_id", domain.ID),
			zap.String("action", action.String()),
			zap.Error(err))
	}
}

func (d *domainService) dispatchSSL(action types.DomainAction, domainID uint) {
	if err := d.Queue.Dispatch(d.Jobs.UpdateDomainSSL(action, domainID)); err != nil {
		logger.Error("failed to queue ssl update",
			zap.Uint("domain_id", domainID),
			zap.String("action", action.String()),
			zap.Error(err))
	}
}
