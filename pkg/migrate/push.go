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

package migrate

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

// Target is where the profiles are pushed to, it's implemented by manager.Session
type Target interface {
	CreateFeatureProfile(ctx context.Context, typ parcelapi.ProfileType, name, description string) (string, error)
	CreateParcel(ctx context.Context, profile parcelapi.ProfileType, profileID string, p parcelapi.Parcel) (string, error)
	CreateSubParcel(ctx context.Context, profile parcelapi.ProfileType, profileID, parentID string, p parcelapi.SubParcel) (string, error)
}

type PushOptions struct {
	// DryRun only logs what would be created
	DryRun bool
}

type PushedParcel struct {
	Name     string         `json:"name"`
	Type     parcelapi.Type `json:"type"`
	ID       string         `json:"id,omitempty"`
	ParentID string         `json:"parentId,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type PushedProfile struct {
	Name    string                `json:"name"`
	Type    parcelapi.ProfileType `json:"type"`
	ID      string                `json:"id,omitempty"`
	Error   string                `json:"error,omitempty"`
	Parcels []PushedParcel        `json:"parcels,omitempty"`
}

type PushResult struct {
	DryRun   bool            `json:"dryRun,omitempty"`
	Profiles []PushedProfile `json:"profiles,omitempty"`
	Created  int             `json:"created"`
	Failed   int             `json:"failed"`
}

var ErrPushFailed = errors.New("some objects weren't pushed")

// Push creates the profiles, then their parcels and then the sub-parcels, failures are recorded in the result and
// don't stop the push of the other objects, ErrPushFailed is returned if anything failed
func Push(ctx context.Context, target Target, ux2 *UX2, opts PushOptions) (*PushResult, error) {
	res := &PushResult{DryRun: opts.DryRun}

	for _, profile := range ux2.Profiles {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "pushing profiles")
		}

		res.Profiles = append(res.Profiles, pushProfile(ctx, target, profile, opts, res))
	}

	slog.Info("Pushed profiles", "dryRun", opts.DryRun, "profiles", len(res.Profiles), "created", res.Created, "failed", res.Failed)

	if res.Failed > 0 {
		return res, errors.Wrapf(ErrPushFailed, "%d failed", res.Failed)
	}

	return res, nil
}

func pushProfile(ctx context.Context, target Target, profile *Profile, opts PushOptions, res *PushResult) PushedProfile {
	pushed := PushedProfile{Name: profile.Name, Type: profile.Type}

	if opts.DryRun {
		slog.Info("Would create profile", "name", profile.Name, "type", profile.Type, "parcels", profile.ParcelCount())
	} else {
		id, err := target.CreateFeatureProfile(ctx, profile.Type, profile.Name, profile.Description)
		if err != nil {
			slog.Warn("Failed to create profile", "name", profile.Name, "err", err)
			pushed.Error = err.Error()
			res.Failed += 1 + profile.ParcelCount()

			return pushed
		}
		pushed.ID = id
	}
	res.Created++

	// sub-parcels are created once all parcels have IDs
	parentIDs := map[*Parcel]string{}
	for _, parcel := range profile.Parcels {
		item := PushedParcel{Name: parcel.Name(), Type: parcel.Type()}

		if opts.DryRun {
			slog.Info("Would create parcel", "profile", profile.Name, "type", parcel.Type(), "name", parcel.Name())
		} else {
			id, err := target.CreateParcel(ctx, profile.Type, pushed.ID, parcel.Parcel)
			if err != nil {
				slog.Warn("Failed to create parcel", "profile", profile.Name, "name", parcel.Name(), "err", err)
				item.Error = err.Error()
				res.Failed++
			} else {
				item.ID = id
			}
		}
		if item.Error == "" {
			res.Created++
			parentIDs[parcel] = item.ID
		}

		pushed.Parcels = append(pushed.Parcels, item)
	}

	for _, parcel := range profile.Parcels {
		for _, sub := range parcel.SubParcels {
			item := PushedParcel{Name: sub.Name(), Type: sub.Type()}

			parentID, parentOk := parentIDs[parcel]
			subParcel, isSub := sub.Parcel.(parcelapi.SubParcel)

			switch {
			case !parentOk:
				item.Error = "parent " + parcel.Name() + " wasn't created"
				res.Failed++
			case !isSub:
				item.Error = "not a sub-parcel"
				res.Failed++
			case opts.DryRun:
				slog.Info("Would create sub-parcel", "profile", profile.Name, "parent", parcel.Name(), "type", sub.Type(), "name", sub.Name())
				res.Created++
			default:
				item.ParentID = parentID
				id, err := target.CreateSubParcel(ctx, profile.Type, pushed.ID, parentID, subParcel)
				if err != nil {
					slog.Warn("Failed to create sub-parcel", "profile", profile.Name, "name", sub.Name(), "err", err)
					item.Error = err.Error()
					res.Failed++
				} else {
					item.ID = id
					res.Created++
				}
			}

			pushed.Parcels = append(pushed.Parcels, item)
		}
	}

	return pushed
}
