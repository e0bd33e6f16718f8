package fsm_test

import (
	"testing"

	"github.com/Nnenty/telers/fsm"
)

func TestMemoryStorage_Contract(t *testing.T) {
	t.Parallel()

	runStorageContract(t, fsm.NewMemory(nil))
}

func TestMemoryStorage_ContractWithMsgpack(t *testing.T) {
	t.Parallel()

	runStorageContract(t, fsm.NewMemory(fsm.MsgpackCodec{}))
}

func TestMemoryStorage_Concurrency(t *testing.T) {
	t.Parallel()

	runStorageConcurrency(t, fsm.NewMemory(nil))
}
