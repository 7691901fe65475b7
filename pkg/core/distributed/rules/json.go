// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package rules

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ruleJSON is the serialized form of a Rule.
type ruleJSON struct {
	Factors  []Factor        `json:"factors"`
	Operands []TensorMapping `json:"operands"`
	Results  []TensorMapping `json:"results"`
}

// MarshalJSON implements json.Marshaler. The order of the factors, and hence their indices, is preserved.
func (r *Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(ruleJSON{Factors: r.factors, Operands: r.operands, Results: r.results})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded rule is validated (see Rule.Validate).
func (r *Rule) UnmarshalJSON(data []byte) error {
	var decoded ruleJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "failed to decode sharding rule")
	}
	rule := Rule{
		factors:  append(make([]Factor, 0, len(decoded.Factors)), decoded.Factors...),
		operands: cloneMappings(decoded.Operands),
		results:  cloneMappings(decoded.Results),
	}
	if err := rule.Validate(); err != nil {
		return errors.WithMessage(err, "invalid sharding rule")
	}
	*r = rule
	return nil
}
