package registry_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/mocks"
	"github.com/feral-file/ff-provenance/internal/registry"
)

const (
	farmerAddress      = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	distributorAddress = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

func TestActorRegistryLoader_Load(t *testing.T) {
	tests := []struct {
		name         string
		setupMocks   func(*mocks.MockFileSystem, *mocks.MockJSON)
		expectedErr  string
		validateFunc func(t *testing.T, reg registry.ActorRegistry)
	}{
		{
			name: "successful load with valid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.EXPECT().ReadFile("actors.json").Return([]byte(`{
					"version": 1,
					"actors": [
						{"name": "Green Valley Farm", "role": "producer", "location": "Punjab, India", "addresses": ["`+farmerAddress+`"]},
						{"name": "Delta Logistics", "role": "distributor", "addresses": ["`+distributorAddress+`"]}
					]
				}`), nil)
				mockJSON.EXPECT().Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			validateFunc: func(t *testing.T, reg registry.ActorRegistry) {
				farmer := reg.LookupActor("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
				require.NotNil(t, farmer)
				assert.Equal(t, "Green Valley Farm", farmer.Name)
				assert.Equal(t, registry.ActorRoleProducer, farmer.Role)
				assert.Equal(t, "Punjab, India", reg.Location(farmerAddress))

				assert.Equal(t, domain.UNKNOWN_LOCATION, reg.Location(distributorAddress))
				assert.Nil(t, reg.LookupActor(domain.ETHEREUM_ZERO_ADDRESS))
				assert.Equal(t, domain.UNKNOWN_LOCATION, reg.Location(domain.ETHEREUM_ZERO_ADDRESS))
			},
		},
		{
			name: "file read error",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.EXPECT().ReadFile("actors.json").Return(nil, errors.New("file not found"))
			},
			expectedErr: "failed to read actor registry file",
		},
		{
			name: "invalid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.EXPECT().ReadFile("actors.json").Return([]byte(`{`), nil)
				mockJSON.EXPECT().Unmarshal(gomock.Any(), gomock.Any()).Return(errors.New("unexpected end of JSON input"))
			},
			expectedErr: "failed to parse actor registry JSON",
		},
		{
			name: "invalid address",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.EXPECT().ReadFile("actors.json").Return([]byte(`{"actors":[{"name":"x","addresses":["0x123"]}]}`), nil)
				mockJSON.EXPECT().Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			expectedErr: "invalid address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFS := mocks.NewMockFileSystem(ctrl)
			mockJSON := mocks.NewMockJSON(ctrl)
			tt.setupMocks(mockFS, mockJSON)

			reg, err := registry.NewActorRegistryLoader(mockFS, mockJSON).Load("actors.json")

			if tt.expectedErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			tt.validateFunc(t, reg)
		})
	}
}

func TestNewActorRegistry_RejectsSharedAddress(t *testing.T) {
	_, err := registry.NewActorRegistry(registry.ActorRegistryData{
		Actors: []registry.ActorInfo{
			{Name: "A", Addresses: []string{farmerAddress}},
			{Name: "B", Addresses: []string{farmerAddress}},
		},
	})

	assert.Error(t, err)
}
