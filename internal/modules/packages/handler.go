// Package packages lists the studio's packages from the catalog service and
// shows the details of one of them.
package packages

import (
	"context"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/action"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/catalog"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/config"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/content"
	"github.com/soulpath-wellness/soulpath-actions-go/internal/dialogue"
	domerrors "github.com/soulpath-wellness/soulpath-actions-go/internal/errors"
)

// ModuleName identifies the module in logs.
const ModuleName = "packages"

// Action names.
const (
	ActionFetchPackages = "action_fetch_packages"
	ActionFetchDetails  = "action_fetch_package_details"
)

// Slot and entity names.
const (
	SlotAvailablePackages = "available_packages"
	SlotSelectedPackage   = "selected_package"
	SlotPackageName       = "package_name"
	SlotPackageID         = "package_id"
)

// Lister fetches the catalog. *catalog.Client implements it.
type Lister interface {
	List(ctx context.Context) (*catalog.Listing, error)
}

// Handler runs the catalog actions.
type Handler struct {
	catalog Lister
	guard   *action.Guard
	policy  action.Policy
}

// NewHandler creates the packages handler. The apology texts come from the
// content document.
func NewHandler(lister Lister, c *content.Content, guard *action.Guard) *Handler {
	replies := c.Degradation.Catalog
	return &Handler{
		catalog: lister,
		guard:   guard,
		policy: action.Policy{
			Service: config.ServiceCatalog,
			Replies: map[domerrors.Kind]string{
				domerrors.KindStatus:     replies.Status,
				domerrors.KindConnection: replies.Connection,
				domerrors.KindMalformed:  replies.Malformed,
				domerrors.KindUnexpected: replies.Unexpected,
			},
		},
	}
}

// Name returns the module name.
func (h *Handler) Name() string {
	return ModuleName
}

// Actions returns the actions this module provides.
func (h *Handler) Actions() []action.Action {
	return []action.Action{
		action.New(ActionFetchPackages, h.fetchPackages),
		action.New(ActionFetchDetails, h.fetchDetails),
	}
}

func (h *Handler) fetchPackages(ctx context.Context, _ *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	listing, ok := action.Attempt(ctx, h.guard, h.policy, out, h.catalog.List)
	if !ok {
		return nil, nil
	}

	out.Utter(catalog.FormatSummary(listing.Packages))
	return []dialogue.Event{dialogue.SlotSet(SlotAvailablePackages, listing.Raw)}, nil
}

// fetchDetails always fetches the catalog again instead of reading the
// available_packages slot, so prices shown are current.
func (h *Handler) fetchDetails(ctx context.Context, tracker *dialogue.Tracker, out *action.Collector) ([]dialogue.Event, error) {
	name, _ := tracker.LastEntityValue(SlotPackageName)
	id, _ := tracker.LastEntityValue(SlotPackageID)
	if name == "" {
		name = tracker.SlotString(SlotPackageName)
	}
	if id == "" {
		id = tracker.SlotString(SlotPackageID)
	}

	if name == "" && id == "" {
		out.Utter("¿Podrías especificar qué paquete te interesa? Puedo darte más detalles sobre cualquiera de nuestros paquetes disponibles.")
		return nil, nil
	}

	listing, ok := action.Attempt(ctx, h.guard, h.policy, out, h.catalog.List)
	if !ok {
		return nil, nil
	}

	pkg, raw, found := listing.Find(name, id)
	if !found {
		requested := name
		if requested == "" {
			requested = id
		}
		out.Utterf("No encontré el paquete '%s'. ¿Te gustaría ver todos nuestros paquetes disponibles?", requested)
		return nil, nil
	}

	out.Utter(catalog.FormatDetails(pkg))
	return []dialogue.Event{dialogue.SlotSet(SlotSelectedPackage, raw)}, nil
}
