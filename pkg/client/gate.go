package client

import (
	"context"
	"strconv"

	"github.com/skaut/skautis-gate/internal/api"
	"github.com/skaut/skautis-gate/internal/buildinfo"
	"github.com/skaut/skautis-gate/internal/core"
	"github.com/skaut/skautis-gate/internal/service"
	"github.com/skaut/skautis-gate/internal/visibility"
)

func (c *Client) Info(ctx context.Context) (*buildinfo.Info, string, error) {
	var info buildinfo.Info
	correlation, err := c.get(ctx, c.url().
		setPath(api.AboutRoute).
		build(), &info)
	return &info, correlation, err
}

// Check asks whether the actor passes any of the referenced rule sets.
func (c *Client) Check(ctx context.Context, actor core.Actor, ruleSets []core.ContentID) (bool, string, error) {
	payload := service.CheckRequest{Actor: actor, RuleSets: ruleSets}
	var result service.CheckResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.CheckRoute).
		build(), payload, &result)
	return result.Passed, correlation, err
}

// Visibility resolves the visibility decision for one content node.
func (c *Client) Visibility(ctx context.Context, actor core.Actor, contentID core.ContentID, canEdit bool) (*visibility.Decision, string, error) {
	payload := service.VisibilityRequest{Actor: actor, CanEdit: canEdit}
	var result visibility.Decision
	correlation, err := c.post(ctx, c.url().
		setPath(api.VisibilityRoute).
		setPathParam("id", strconv.FormatInt(int64(contentID), 10)).
		build(), payload, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// Register runs the registration gate for the actor.
func (c *Client) Register(ctx context.Context, actor core.Actor) (string, string, error) {
	payload := service.RegisterRequest{Actor: actor}
	var result service.RegisterResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.RegisterRoute).
		build(), payload, &result)
	return result.Role, correlation, err
}

// ExplainTrace returns the full evaluation trace for the actor.
func (c *Client) ExplainTrace(ctx context.Context, actor core.Actor, ruleSets []core.ContentID) (*core.EvaluationTrace, error) {
	payload := service.ExplainRequest{Actor: actor, RuleSets: ruleSets}
	var trace core.EvaluationTrace
	if _, err := c.post(ctx, c.url().
		setPath(api.ExplainRoute).
		build(), payload, &trace); err != nil {
		return nil, err
	}
	return &trace, nil
}

// RuleSets lists the stored rule sets.
func (c *Client) RuleSets(ctx context.Context) ([]*core.RuleSet, error) {
	var out []*core.RuleSet
	if _, err := c.get(ctx, c.url().
		setPath(api.RuleSetsRoute).
		build(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Variants lists the rule variants with their selectable values.
func (c *Client) Variants(ctx context.Context) ([]service.VariantInfo, error) {
	var out []service.VariantInfo
	if _, err := c.get(ctx, c.url().
		setPath(api.VariantsRoute).
		build(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AuditDecisions lists recent gate decisions.
func (c *Client) AuditDecisions(ctx context.Context, limit uint) ([]core.AuditEntry, error) {
	ub := c.url().setPath(api.AuditDecisionsRoute)
	url := ub.build()
	if limit > 0 {
		url += "?limit=" + strconv.FormatUint(uint64(limit), 10)
	}
	var out []core.AuditEntry
	if _, err := c.get(ctx, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}
