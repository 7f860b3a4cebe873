package supportapi

import (
	"errors"
	"net/http"

	"github.com/linnemanlabs/supportflow/internal/severity"
	"github.com/linnemanlabs/supportflow/internal/support"
)

func (a *API) handleRetrain(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Retrain(r.Context())
	if err != nil {
		var te *severity.TrainingError
		switch {
		case errors.Is(err, support.ErrNoCorpusSource):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no corpus source configured"})
		case errors.As(err, &te):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "corpus rejected: " + te.Reason})
		default:
			a.logger.Error(r.Context(), err, "retrain failed")
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "corpus source unavailable"})
		}
		return
	}

	a.logger.Info(r.Context(), "severity model retrained", "examples", res.Examples)
	writeJSON(w, http.StatusOK, res)
}
