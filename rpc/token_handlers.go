package rpc

type tokenMintParams struct {
	Collection string `json:"collection"`
	TokenID    string `json:"tokenId"`
	Owner      string `json:"owner"`
}

func (s *Server) handleTokenMint(req *RPCRequest) (interface{}, *RPCError) {
	var params tokenMintParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	asset, rpcErr := parseAsset("token", assetPayload{Collection: params.Collection, TokenID: params.TokenID})
	if rpcErr != nil {
		return nil, rpcErr
	}
	owner, rpcErr := parseAddress("owner", params.Owner)
	if rpcErr != nil {
		return nil, rpcErr
	}
	err := s.state.Transition(func() error {
		return s.state.TokenMint(asset.Collection, asset.TokenID, owner)
	})
	if err != nil {
		return nil, engineError(err)
	}
	return map[string]string{"owner": formatAddress(owner)}, nil
}

type tokenApproveParams struct {
	Caller     string `json:"caller"`
	Collection string `json:"collection"`
	TokenID    string `json:"tokenId"`
	Spender    string `json:"spender"`
}

func (s *Server) handleTokenApprove(req *RPCRequest) (interface{}, *RPCError) {
	var params tokenApproveParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return nil, rpcErr
	}
	asset, rpcErr := parseAsset("token", assetPayload{Collection: params.Collection, TokenID: params.TokenID})
	if rpcErr != nil {
		return nil, rpcErr
	}
	// The zero address clears an existing approval.
	var spender [20]byte
	if params.Spender != "" {
		spender, rpcErr = parseAddress("spender", params.Spender)
		if rpcErr != nil {
			return nil, rpcErr
		}
	}
	err := s.state.Transition(func() error {
		return s.state.TokenApprove(asset.Collection, asset.TokenID, caller, spender)
	})
	if err != nil {
		return nil, engineError(err)
	}
	return map[string]bool{"approved": spender != [20]byte{}}, nil
}

type setApprovalForAllParams struct {
	Owner      string `json:"owner"`
	Collection string `json:"collection"`
	Operator   string `json:"operator"`
	Approved   bool   `json:"approved"`
}

func (s *Server) handleTokenSetApprovalForAll(req *RPCRequest) (interface{}, *RPCError) {
	var params setApprovalForAllParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	owner, rpcErr := parseAddress("owner", params.Owner)
	if rpcErr != nil {
		return nil, rpcErr
	}
	collection, rpcErr := parseAddress("collection", params.Collection)
	if rpcErr != nil {
		return nil, rpcErr
	}
	operator, rpcErr := parseAddress("operator", params.Operator)
	if rpcErr != nil {
		return nil, rpcErr
	}
	err := s.state.Transition(func() error {
		return s.state.TokenSetApprovalForAll(collection, owner, operator, params.Approved)
	})
	if err != nil {
		return nil, engineError(err)
	}
	return map[string]bool{"approved": params.Approved}, nil
}

type tokenOwnerParams struct {
	Collection string `json:"collection"`
	TokenID    string `json:"tokenId"`
}

func (s *Server) handleTokenOwner(req *RPCRequest) (interface{}, *RPCError) {
	var params tokenOwnerParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	asset, rpcErr := parseAsset("token", assetPayload{Collection: params.Collection, TokenID: params.TokenID})
	if rpcErr != nil {
		return nil, rpcErr
	}
	var (
		owner  [20]byte
		exists bool
	)
	err := s.state.View(func() error {
		var viewErr error
		owner, exists, viewErr = s.state.OwnerOf(asset.Collection, asset.TokenID)
		return viewErr
	})
	if err != nil {
		return nil, engineError(err)
	}
	result := map[string]interface{}{"exists": exists}
	if exists {
		result["owner"] = formatAddress(owner)
	}
	return result, nil
}

type balanceGetParams struct {
	Address string `json:"address"`
}

func (s *Server) handleBalanceGet(req *RPCRequest) (interface{}, *RPCError) {
	var params balanceGetParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	addr, rpcErr := parseAddress("address", params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var balance string
	err := s.state.View(func() error {
		account, viewErr := s.state.GetAccount(addr)
		if viewErr != nil {
			return viewErr
		}
		balance = account.Balance.String()
		return nil
	})
	if err != nil {
		return nil, engineError(err)
	}
	return map[string]string{"address": formatAddress(addr), "balance": balance}, nil
}

type balanceMintParams struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

func (s *Server) handleBalanceMint(req *RPCRequest) (interface{}, *RPCError) {
	var params balanceMintParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	addr, rpcErr := parseAddress("address", params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}
	amount, rpcErr := parseAmount("amount", params.Amount)
	if rpcErr != nil {
		return nil, rpcErr
	}
	err := s.state.Transition(func() error {
		return s.state.Mint(addr, amount)
	})
	if err != nil {
		return nil, engineError(err)
	}
	return map[string]string{"address": formatAddress(addr), "minted": amount.String()}, nil
}
