// Copyright (c) 2026 The Solar Authors. All rights reserved.
// This file is part of go-solar. Use of this source code is governed by a
// MIT-style license that can be found in the LICENSE file.

package ecosystem

import (
	"bytes"
	"encoding/json"
)

type directoryResponse struct {
	list []Account
}

func (r *directoryResponse) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return json.Unmarshal(data, &r.list)
	}
	var wrapped struct {
		Embedded struct {
			Records []Account `json:"records"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	r.list = wrapped.Embedded.Records
	return nil
}

func (r *directoryResponse) accounts() []Account {
	if r.list == nil {
		return []Account{}
	}
	return r.list
}
