package rpc

type placeSwapParams struct {
	Caller  string       `json:"caller"`
	Give    assetPayload `json:"give"`
	Want    assetPayload `json:"want"`
	MarkUp  string       `json:"markUp"`
	Payment string       `json:"payment"`
}

func (s *Server) handleSwapPlace(req *RPCRequest) (interface{}, *RPCError) {
	var params placeSwapParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return nil, rpcErr
	}
	give, rpcErr := parseAsset("give", params.Give)
	if rpcErr != nil {
		return nil, rpcErr
	}
	want, rpcErr := parseAsset("want", params.Want)
	if rpcErr != nil {
		return nil, rpcErr
	}
	markUp, rpcErr := parseAmount("markUp", params.MarkUp)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payment, rpcErr := parseAmount("payment", params.Payment)
	if rpcErr != nil {
		return nil, rpcErr
	}

	id, err := s.engine.PlaceSwapOrder(caller, give, want, markUp, payment)
	if err != nil {
		return nil, engineError(err)
	}
	s.metrics.ObserveOrder("placed")
	return map[string]string{"orderId": formatOrderID(id)}, nil
}

type completeSwapParams struct {
	Caller  string       `json:"caller"`
	Give    assetPayload `json:"give"`
	Want    assetPayload `json:"want"`
	Payment string       `json:"payment"`
}

func (s *Server) handleSwapComplete(req *RPCRequest) (interface{}, *RPCError) {
	var params completeSwapParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return nil, rpcErr
	}
	give, rpcErr := parseAsset("give", params.Give)
	if rpcErr != nil {
		return nil, rpcErr
	}
	want, rpcErr := parseAsset("want", params.Want)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payment, rpcErr := parseAmount("payment", params.Payment)
	if rpcErr != nil {
		return nil, rpcErr
	}

	id, err := s.engine.CompleteSwapOrder(caller, give, want, payment)
	if err != nil {
		return nil, engineError(err)
	}
	s.metrics.ObserveOrder("completed")
	return map[string]string{"orderId": formatOrderID(id)}, nil
}

type cancelSwapParams struct {
	Caller  string `json:"caller"`
	OrderID string `json:"orderId"`
}

func (s *Server) handleSwapCancel(req *RPCRequest) (interface{}, *RPCError) {
	var params cancelSwapParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parseAddress("caller", params.Caller)
	if rpcErr != nil {
		return nil, rpcErr
	}
	id, rpcErr := parseOrderID("orderId", params.OrderID)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := s.engine.CancelSwapOrder(caller, id); err != nil {
		return nil, engineError(err)
	}
	s.metrics.ObserveOrder("cancelled")
	return map[string]string{"orderId": formatOrderID(id)}, nil
}

type orderIDParams struct {
	OrderID string `json:"orderId"`
}

func (s *Server) handleSwapGet(req *RPCRequest) (interface{}, *RPCError) {
	var params orderIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	id, rpcErr := parseOrderID("orderId", params.OrderID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	order, err := s.engine.GetSwapOrder(id)
	if err != nil {
		return nil, engineError(err)
	}
	return formatOrder(order), nil
}

func (s *Server) handleSwapAudit(req *RPCRequest) (interface{}, *RPCError) {
	var params orderIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	id, rpcErr := parseOrderID("orderId", params.OrderID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	records, err := s.engine.OrderAudit(id)
	if err != nil {
		return nil, engineError(err)
	}
	out := make([]auditResult, 0, len(records))
	for _, record := range records {
		out = append(out, formatAudit(record))
	}
	return out, nil
}

func (s *Server) handleSwapParams(req *RPCRequest) (interface{}, *RPCError) {
	if len(req.Params) != 0 {
		return nil, invalidParams("swap_params takes no parameters")
	}
	return formatParams(s.params.Current()), nil
}

type setParamsParams struct {
	Fee         string `json:"fee"`
	MarkUpLimit string `json:"markUpLimit"`
}

func (s *Server) handleSwapSetParams(req *RPCRequest) (interface{}, *RPCError) {
	var params setParamsParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	fee, rpcErr := parseAmount("fee", params.Fee)
	if rpcErr != nil {
		return nil, rpcErr
	}
	limit, rpcErr := parseAmount("markUpLimit", params.MarkUpLimit)
	if rpcErr != nil {
		return nil, rpcErr
	}
	updated, err := s.params.Update(fee, limit)
	if err != nil {
		return nil, engineError(err)
	}
	s.log.Info("swap parameters updated", "version", updated.Version, "fee", updated.Fee.String(), "markUpLimit", updated.MarkUpLimit.String())
	return formatParams(updated), nil
}

type adminPauseParams struct {
	Module string `json:"module"`
	Paused bool   `json:"paused"`
}

func (s *Server) handleAdminPause(req *RPCRequest) (interface{}, *RPCError) {
	var params adminPauseParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Module == "" {
		return nil, invalidParams("module is required")
	}
	s.pauses.SetPaused(params.Module, params.Paused)
	s.log.Info("module pause toggled", "module", params.Module, "paused", params.Paused)
	return map[string]bool{"paused": s.pauses.IsPaused(params.Module)}, nil
}

type registryParams struct {
	Collection string `json:"collection"`
}

func (s *Server) handleRegistryAuthorize(req *RPCRequest) (interface{}, *RPCError) {
	var params registryParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	collection, rpcErr := parseAddress("collection", params.Collection)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.registry.Authorize(collection); err != nil {
		return nil, engineError(err)
	}
	return map[string]bool{"eligible": true}, nil
}

func (s *Server) handleRegistryRevoke(req *RPCRequest) (interface{}, *RPCError) {
	var params registryParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	collection, rpcErr := parseAddress("collection", params.Collection)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.registry.Revoke(collection); err != nil {
		return nil, engineError(err)
	}
	return map[string]bool{"eligible": false}, nil
}

func (s *Server) handleRegistryList(req *RPCRequest) (interface{}, *RPCError) {
	if len(req.Params) != 0 {
		return nil, invalidParams("registry_list takes no parameters")
	}
	collections := s.registry.List()
	out := make([]string, 0, len(collections))
	for _, collection := range collections {
		out = append(out, formatAddress(collection))
	}
	return out, nil
}
