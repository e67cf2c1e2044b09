package service

import (
	"hireline.app/engine/core/config"
	"hireline.app/engine/internal/store"
)

// Services bundles every engine service, wired once at startup.
type Services struct {
	Intake   *IntakeService
	Dedupe   *DedupeService
	Workflow *WorkflowService
	Leads    *LeadService
	Funnel   *FunnelService
	Ledger   *LedgerService
}

func NewServices(st *store.Store, cfg config.Config) *Services {
	dedupe := NewDedupeService(st)
	workflow := NewWorkflowService(st, st, dedupe)
	funnel := NewFunnelService(st, cfg.Campaigns.PacingDays, cfg.Campaigns.DefaultSLAMinutes)
	leads := NewLeadService(st, st, workflow, cfg.Campaigns.DefaultSLAMinutes, cfg.Leads.WhatsAppNumber)
	return &Services{
		Intake:   NewIntakeService(st),
		Dedupe:   dedupe,
		Workflow: workflow,
		Leads:    leads,
		Funnel:   funnel,
		Ledger:   NewLedgerService(st, leads, funnel, cfg.Webhooks.MaxRetries),
	}
}
