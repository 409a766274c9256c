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

package manager

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.githedgehog.com/catalystwan/api/meta"
	parcelapi "go.githedgehog.com/catalystwan/api/parcel/v1"
)

const FeatureProfilesPath = "/dataservice/v1/feature-profile/sdwan"

// MinParcelVersion is the Manager version constraint for the feature profile and parcel APIs
var MinParcelVersion = ">= " + meta.MinFeatureProfileVersion.String()

type FeatureProfile struct {
	ID            string                `json:"profileId,omitempty"`
	Name          string                `json:"profileName"`
	Type          parcelapi.ProfileType `json:"profileType,omitempty"`
	Description   string                `json:"description,omitempty"`
	CreatedBy     string                `json:"createdBy,omitempty"`
	LastUpdatedBy string                `json:"lastUpdatedBy,omitempty"`
	LastUpdatedOn int64                 `json:"lastUpdatedOn,omitempty"`
}

type createProfileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type createResponse struct {
	ID       string `json:"id,omitempty"`
	ParcelID string `json:"parcelId,omitempty"`
}

func profilePath(typ parcelapi.ProfileType) (string, error) {
	if !slices.Contains(parcelapi.ProfileTypes, typ) {
		return "", errors.Errorf("unknown profile type %q", typ)
	}

	return FeatureProfilesPath + "/" + string(typ), nil
}

func (s *Session) ListFeatureProfiles(ctx context.Context, typ parcelapi.ProfileType) ([]FeatureProfile, error) {
	if err := s.RequireVersion(MinParcelVersion); err != nil {
		return nil, err
	}

	path, err := profilePath(typ)
	if err != nil {
		return nil, err
	}

	profiles := []FeatureProfile{}
	if err := s.Get(ctx, path, &profiles); err != nil {
		return nil, errors.Wrapf(err, "listing %s feature profiles", typ)
	}

	for idx := range profiles {
		if profiles[idx].Type == "" {
			profiles[idx].Type = typ
		}
	}

	return profiles, nil
}

// CreateFeatureProfile creates an empty feature profile and returns its ID
func (s *Session) CreateFeatureProfile(ctx context.Context, typ parcelapi.ProfileType, name, description string) (string, error) {
	if err := s.RequireVersion(MinParcelVersion); err != nil {
		return "", err
	}

	path, err := profilePath(typ)
	if err != nil {
		return "", err
	}

	if description == "" {
		description = name
	}

	resp := &createResponse{}
	if err := s.Post(ctx, path, &createProfileRequest{Name: name, Description: description}, resp); err != nil {
		return "", errors.Wrapf(err, "creating %s feature profile %s", typ, name)
	}

	id, err := parseID(resp.ID)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s feature profile %s", typ, name)
	}

	return id, nil
}

func (s *Session) DeleteFeatureProfile(ctx context.Context, typ parcelapi.ProfileType, id string) error {
	path, err := profilePath(typ)
	if err != nil {
		return err
	}

	if err := s.Delete(ctx, path+"/"+url.PathEscape(id)); err != nil {
		return errors.Wrapf(err, "deleting %s feature profile %s", typ, id)
	}

	return nil
}

func parcelPath(profile parcelapi.ProfileType, profileID string, typ parcelapi.Type) (string, error) {
	path, err := profilePath(profile)
	if err != nil {
		return "", err
	}
	if !parcelapi.SupportedIn(typ, profile) {
		return "", errors.Errorf("parcel %s isn't supported in %s profile", typ, profile)
	}

	return path + "/" + url.PathEscape(profileID) + "/" + string(typ), nil
}

// CreateParcel creates the parcel in the feature profile and returns its ID
func (s *Session) CreateParcel(ctx context.Context, profile parcelapi.ProfileType, profileID string, p parcelapi.Parcel) (string, error) {
	if err := s.RequireVersion(MinParcelVersion); err != nil {
		return "", err
	}

	if _, ok := p.(parcelapi.SubParcel); ok {
		return "", errors.Errorf("parcel %s %s should be created under its parent", p.ParcelType(), p.GetName())
	}

	path, err := parcelPath(profile, profileID, p.ParcelType())
	if err != nil {
		return "", err
	}

	return s.createParcel(ctx, path, p)
}

// CreateSubParcel creates the parcel under the parent parcel, e.g. interface under VPN
func (s *Session) CreateSubParcel(ctx context.Context, profile parcelapi.ProfileType, profileID, parentID string, p parcelapi.SubParcel) (string, error) {
	if err := s.RequireVersion(MinParcelVersion); err != nil {
		return "", err
	}

	parent := p.ParentType()
	path, err := parcelPath(profile, profileID, parent)
	if err != nil {
		return "", err
	}

	child := strings.TrimPrefix(string(p.ParcelType()), string(parent)+"/")
	path += "/" + url.PathEscape(parentID) + "/" + child

	return s.createParcel(ctx, path, p)
}

func (s *Session) createParcel(ctx context.Context, path string, p parcelapi.Parcel) (string, error) {
	resp := &createResponse{}
	if err := s.Post(ctx, path, p, resp); err != nil {
		return "", errors.Wrapf(err, "creating %s parcel %s", p.ParcelType(), p.GetName())
	}

	id, err := parseID(resp.ParcelID)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s parcel %s", p.ParcelType(), p.GetName())
	}

	return id, nil
}

func (s *Session) GetParcel(ctx context.Context, profile parcelapi.ProfileType, profileID string, typ parcelapi.Type, id string) (*parcelapi.Envelope, error) {
	path, err := parcelPath(profile, profileID, typ)
	if err != nil {
		return nil, err
	}

	env := &parcelapi.Envelope{}
	if err := s.Get(ctx, path+"/"+url.PathEscape(id), env); err != nil {
		return nil, errors.Wrapf(err, "getting %s parcel %s", typ, id)
	}
	if env.ParcelType == "" {
		env.ParcelType = typ
	}

	return env, nil
}

func (s *Session) DeleteParcel(ctx context.Context, profile parcelapi.ProfileType, profileID string, typ parcelapi.Type, id string) error {
	path, err := parcelPath(profile, profileID, typ)
	if err != nil {
		return err
	}

	if err := s.Delete(ctx, path+"/"+url.PathEscape(id)); err != nil {
		return errors.Wrapf(err, "deleting %s parcel %s", typ, id)
	}

	return nil
}

func parseID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid id %q returned", raw)
	}

	return id.String(), nil
}
