package engine

import (
	"time"

	"github.com/musedating/muse-engine/internal/domain"
)

// boostCooldown gates how often a boost can be spent.
const boostCooldown = 24 * time.Hour

// planCatalog is static and ordered; immutable at runtime.
var planCatalog = []domain.PremiumPlan{
	{ID: "daily", Name: "Daily", Price: 10, DurationDays: 1},
	{ID: "weekly", Name: "Weekly", Price: 50, DurationDays: 7},
	{ID: "monthly", Name: "Monthly", Price: 199, DurationDays: 30},
	{ID: "yearly", Name: "Yearly", Price: 999, DurationDays: 365},
}

// Plans returns the premium plan catalog.
func (e *Engine) Plans() []domain.PremiumPlan {
	return append([]domain.PremiumPlan(nil), planCatalog...)
}

// PurchasePremium activates the plan, overwriting any existing entitlement.
// Expiry is calendar-day arithmetic: now plus the plan's duration in days.
// An unknown plan id is a no-op and leaves the entitlement untouched.
func (e *Engine) PurchasePremium(planID string) bool {
	var plan *domain.PremiumPlan
	for i := range planCatalog {
		if planCatalog[i].ID == planID {
			plan = &planCatalog[i]
			break
		}
	}
	if plan == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p := *plan
	expiry := e.now().AddDate(0, 0, plan.DurationDays)
	e.premiumPlan = &p
	e.premiumExpiry = &expiry
	e.persistLocked()

	e.log.Info("premium purchased", "plan", planID, "expiry", expiry)
	return true
}

// CancelPremium clears the entitlement unconditionally.
func (e *Engine) CancelPremium() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.premiumPlan = nil
	e.premiumExpiry = nil
	e.persistLocked()
}

// Premium returns the active plan and expiry, nil when unentitled.
func (e *Engine) Premium() (*domain.PremiumPlan, *time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var plan *domain.PremiumPlan
	var expiry *time.Time
	if e.premiumPlan != nil {
		p := *e.premiumPlan
		plan = &p
	}
	if e.premiumExpiry != nil {
		t := *e.premiumExpiry
		expiry = &t
	}
	return plan, expiry
}

// LastBoost returns when the last boost was spent, nil if never.
func (e *Engine) LastBoost() *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastBoost == nil {
		return nil
	}
	t := *e.lastBoost
	return &t
}

// IsPremium reports whether an entitlement exists and has not expired.
func (e *Engine) IsPremium() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isPremiumLocked()
}

func (e *Engine) isPremiumLocked() bool {
	return e.premiumPlan != nil && e.premiumExpiry != nil && e.now().Before(*e.premiumExpiry)
}

// BoostProfile spends a boost if entitled and off cooldown; otherwise it
// no-ops (callers gate availability with CanBoost, the engine never
// rejects). Only cooldown bookkeeping happens here: boosting changes how
// other users see this profile, which is outside a single client.
func (e *Engine) BoostProfile() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isPremiumLocked() || !e.canBoostLocked() {
		return false
	}

	now := e.now()
	e.lastBoost = &now
	e.persistLocked()
	return true
}

// CanBoost is the pure cooldown predicate.
func (e *Engine) CanBoost() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canBoostLocked()
}

func (e *Engine) canBoostLocked() bool {
	return e.lastBoost == nil || e.now().Sub(*e.lastBoost) >= boostCooldown
}
