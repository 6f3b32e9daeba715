package routes

import (
	"encoding/json"
	"sort"

	"github.com/gin-gonic/gin"

	"growthflow-server/types"
)

// bindPatch reads a partial-update body as raw fields, so handlers (and
// the authorization engine) see exactly which keys the caller sent.
func bindPatch(c *gin.Context) (map[string]json.RawMessage, error) {
	patch := make(map[string]json.RawMessage)
	if err := c.ShouldBindJSON(&patch); err != nil {
		return nil, err
	}
	return patch, nil
}

// patchKeys lists the field names present in a patch body, sorted.
func patchKeys(patch map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(patch))
	for key := range patch {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func unmarshalField(raw json.RawMessage, dest interface{}) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return &types.ValidationError{Message: "invalid field value"}
	}
	return nil
}
