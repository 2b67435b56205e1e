package state

import (
	"encoding/binary"
	"math/big"
)

var (
	accountPrefix       = []byte("account/")
	tokenOwnerPrefix    = []byte("token/owner/")
	tokenApprovalPrefix = []byte("token/approval/")
	tokenOperatorPrefix = []byte("token/operator/")
	orderPrefix         = []byte("swap/order/")
	auditEntryPrefix    = []byte("swap/audit/entry/")
	auditSeqPrefix      = []byte("swap/audit/seq/")
)

func accountKey(addr [20]byte) []byte {
	buf := make([]byte, 0, len(accountPrefix)+len(addr))
	buf = append(buf, accountPrefix...)
	return append(buf, addr[:]...)
}

func tokenKey(prefix []byte, collection [20]byte, tokenID *big.Int) []byte {
	var word [32]byte
	if tokenID != nil && tokenID.Sign() > 0 {
		tokenID.FillBytes(word[:])
	}
	buf := make([]byte, 0, len(prefix)+len(collection)+1+len(word))
	buf = append(buf, prefix...)
	buf = append(buf, collection[:]...)
	buf = append(buf, '/')
	return append(buf, word[:]...)
}

func operatorKey(collection, owner, operator [20]byte) []byte {
	buf := make([]byte, 0, len(tokenOperatorPrefix)+3*20+2)
	buf = append(buf, tokenOperatorPrefix...)
	buf = append(buf, collection[:]...)
	buf = append(buf, '/')
	buf = append(buf, owner[:]...)
	buf = append(buf, '/')
	return append(buf, operator[:]...)
}

func orderKey(id [32]byte) []byte {
	buf := make([]byte, 0, len(orderPrefix)+len(id))
	buf = append(buf, orderPrefix...)
	return append(buf, id[:]...)
}

func auditSeqKey(id [32]byte) []byte {
	buf := make([]byte, 0, len(auditSeqPrefix)+len(id))
	buf = append(buf, auditSeqPrefix...)
	return append(buf, id[:]...)
}

func auditEntryScope(id [32]byte) []byte {
	buf := make([]byte, 0, len(auditEntryPrefix)+len(id)+1)
	buf = append(buf, auditEntryPrefix...)
	buf = append(buf, id[:]...)
	return append(buf, '/')
}

func auditEntryKey(id [32]byte, seq uint64) []byte {
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	buf := auditEntryScope(id)
	return append(buf, seqBytes[:]...)
}
