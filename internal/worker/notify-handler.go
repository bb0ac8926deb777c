package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yogaputrap/createsync-platform/internal/queue"
	"github.com/yogaputrap/createsync-platform/internal/utils/types"
	"github.com/yogaputrap/createsync-platform/internal/websocket"
)

// HandleJob dispatches one notification job. Jobs target users, not
// rooms: an invitation concerns an actor who may not be subscribed to
// any room of the project yet.
func HandleJob(ctx context.Context, job queue.Job, ws *websocket.Hub) error {
	switch job.Type {
	case "invitation_created":
		return handleInvitationCreated(job, ws)
	case "invitation_resolved":
		return handleInvitationResolved(job, ws)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func handleInvitationCreated(job queue.Job, ws *websocket.Hub) error {
	var payload types.NotifyInvitationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid invitation payload: %w", err)
	}

	ws.BroadcastToUser(payload.InviteeID, websocket.NewInvitationEvent(&payload))
	log.Info().Str("job_id", job.ID).Str("inviteeID", payload.InviteeID).Uint("projectID", payload.ProjectID).Msg("invitation notification delivered")
	return nil
}

func handleInvitationResolved(job queue.Job, ws *websocket.Hub) error {
	var payload types.NotifyInvitationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid invitation payload: %w", err)
	}

	// the inviter learns the outcome
	ws.BroadcastToUser(payload.InviterID, websocket.NewInvitationEvent(&payload))
	log.Info().Str("job_id", job.ID).Str("inviterID", payload.InviterID).Str("status", payload.Status).Msg("invitation resolution delivered")
	return nil
}
