package dispatcher

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nnenty/telers/types"
)

// WebhookHandler returns a gin handler decoding one update per POST and
// feeding it through the router tree. Updates of unrecognized kinds and
// failed updates are acknowledged anyway so the platform does not redeliver
// them; the failure stays scoped to that update.
func (d *Dispatcher) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)

			return
		}

		if types.TypeOfRaw(raw) == types.UpdateTypeUnknown {
			d.log.Warnf("webhook received update of unrecognized kind")
			c.Status(http.StatusOK)

			return
		}

		var update types.Update
		if err := json.Unmarshal(raw, &update); err != nil {
			d.log.Errorf("webhook received malformed update: %s", err)
			c.AbortWithStatus(http.StatusBadRequest)

			return
		}

		if _, feedErr := d.FeedUpdate(c.Request.Context(), &update); feedErr != nil {
			d.log.WithUpdateID(update.ID).Errorf("update processing failed: %s", feedErr)
		}

		c.Status(http.StatusOK)
	}
}
