package rpc

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAssetRequiresTokenID(t *testing.T) {
	_, rpcErr := parseAsset("give", assetPayload{Collection: collectionAddr})
	require.NotNil(t, rpcErr)
	require.Equal(t, codeInvalidParams, rpcErr.Code)
	require.Contains(t, rpcErr.Message, "give.tokenId is required")
}

func TestParseAssetBoundsTokenID(t *testing.T) {
	wide := new(big.Int).Lsh(big.NewInt(1), 260)
	_, rpcErr := parseAsset("give", assetPayload{Collection: collectionAddr, TokenID: wide.String()})
	require.NotNil(t, rpcErr)
	require.Equal(t, codeInvalidParams, rpcErr.Code)
	require.Contains(t, rpcErr.Message, "256 bits")

	atLimit := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	asset, rpcErr := parseAsset("give", assetPayload{Collection: collectionAddr, TokenID: atLimit.String()})
	require.Nil(t, rpcErr)
	require.Zero(t, asset.TokenID.Cmp(atLimit))
}

func TestParseAssetRejectsNegativeAndGarbage(t *testing.T) {
	for _, tokenID := range []string{"-1", "ten", "1.5"} {
		_, rpcErr := parseAsset("give", assetPayload{Collection: collectionAddr, TokenID: tokenID})
		require.NotNil(t, rpcErr, "tokenId %q accepted", tokenID)
		require.Equal(t, codeInvalidParams, rpcErr.Code)
	}
}

func TestSwapPlaceRejectsWideTokenID(t *testing.T) {
	ts := newTestServer(t)
	params := placeParams()
	params["give"] = map[string]string{
		"collection": collectionAddr,
		"tokenId":    new(big.Int).Lsh(big.NewInt(1), 300).String(),
	}
	resp, status := rpcCall(t, ts, "", "swap_place", params)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}
