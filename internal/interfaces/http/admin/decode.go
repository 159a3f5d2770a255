package admin

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sngm3741/reststop-ratings/api/internal/interfaces/http/common"
)

// decodeBody は JSON ボディを読み取る。失敗時は 400 を書き込み false を返す。
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		common.WriteBadRequest(h.logger, w, "リクエストの形式が不正です")
		return false
	}
	return true
}
