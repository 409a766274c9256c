// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/api/meta"
)

// BannerData defines the login and message of the day banners
type BannerData struct {
	// Login is the banner shown before the login prompt
	Login meta.Value[string] `json:"login,omitzero"`
	// MOTD is the message of the day shown after the login
	MOTD meta.Value[string] `json:"motd,omitzero"`
}

type Banner struct {
	Base `json:",inline"`
	Data BannerData `json:"data"`
}

var _ Parcel = (*Banner)(nil)

func init() {
	register(TypeBanner, func() Parcel { return &Banner{} })
}

func (p *Banner) ParcelType() Type {
	return TypeBanner
}

func (p *Banner) ProfileTypes() []ProfileType {
	return []ProfileType{ProfileTypeSystem}
}

func (p *Banner) Default() {
	p.defaultBase()

	p.Data.Login = p.Data.Login.OrDefault("")
	p.Data.MOTD = p.Data.MOTD.OrDefault("")
}

func (p *Banner) Validate() error {
	if err := p.validateBase(); err != nil {
		return err
	}

	if err := meta.ValidateMaxLen("login", p.Data.Login, 2048); err != nil {
		return errors.Wrapf(err, "banner")
	}
	if err := meta.ValidateMaxLen("motd", p.Data.MOTD, 2048); err != nil {
		return errors.Wrapf(err, "banner")
	}

	return nil
}
