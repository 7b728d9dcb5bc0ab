package services

import (
	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/repositories/database/pgsql"
)

// Compile-time checks that the implementations satisfy their facades.
var (
	_ portssvc.LedgerSvcFacade     = (*LedgerService)(nil)
	_ portssvc.DonationSvcFacade   = (*DonationService)(nil)
	_ portssvc.AllocationSvcFacade = (*AllocationService)(nil)
	_ portssvc.RateSvcFacade       = (*RateService)(nil)
)

// ServiceContainer bundles all application services for handler wiring.
type ServiceContainer struct {
	LedgerSvc     portssvc.LedgerSvcFacade
	DonationSvc   portssvc.DonationSvcFacade
	AllocationSvc portssvc.AllocationSvcFacade
	RateSvc       portssvc.RateSvcFacade
}

// NewServiceContainer wires the services onto the repository provider.
func NewServiceContainer(repos *pgsql.RepositoryProvider) *ServiceContainer {
	ledgerSvc := NewLedgerService(repos.AccountRepo, repos.LedgerRepo)
	rateSvc := NewRateService(repos.RateRepo)
	donationSvc := NewDonationService(repos.DonationRepo, repos.OutboxRepo, ledgerSvc, rateSvc)
	allocationSvc := NewAllocationService(repos.FundingRepo, repos.DonationRepo, ledgerSvc)

	return &ServiceContainer{
		LedgerSvc:     ledgerSvc,
		DonationSvc:   donationSvc,
		AllocationSvc: allocationSvc,
		RateSvc:       rateSvc,
	}
}
