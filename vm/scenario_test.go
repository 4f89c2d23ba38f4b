package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tqscript/tqvm/ident"
	"github.com/tqscript/tqvm/opcodes"
	"github.com/tqscript/tqvm/values"
)

// These mirror the six end-to-end scenarios the engine is expected to get
// right: a global survives the Interpret call that wrote it, string
// concatenation, a many-iteration counted float loop (scaled down from
// original_source/src/tests.rs's test_vm, which ran 999999 iterations —
// 4096 keeps this test fast while still exercising the same accumulation
// pattern), a native call observing host state, the missing-variable
// convention, and case-insensitive identifiers.

func TestScenario_GlobalIncrementPersistsAcrossInterpretCalls(t *testing.T) {
	v := New(nil)

	require.NoError(t, v.Interpret([]opcodes.Instruction{
		opcodes.PushInteger(0),
		opcodes.PushVariable(globalRef("hits")),
		opcodes.Assignment(),
		opcodes.Pop(),
	}))

	increment := []opcodes.Instruction{
		opcodes.PushVariable(globalRef("hits")),
		opcodes.PushInteger(1),
		opcodes.Add(),
		opcodes.PushVariable(globalRef("hits")),
		opcodes.Assignment(),
		opcodes.Pop(),
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, v.Interpret(increment))
	}

	got, ok := v.globals.get(ident.Hash("hits"))
	require.True(t, ok)
	assert.Equal(t, float32(5), got.AsFloat())
}

func TestScenario_StringConcatenation(t *testing.T) {
	v := New(nil)
	err := v.Interpret([]opcodes.Instruction{
		opcodes.PushString("World!"),  // RHS
		opcodes.PushString("Hello, "), // LHS, popped first
		opcodes.Concat(),
		opcodes.PushVariable(globalRef("greeting")),
		opcodes.Assignment(),
		opcodes.Pop(),
	})
	require.NoError(t, err)

	got, ok := v.globals.get(ident.Hash("greeting"))
	require.True(t, ok)
	assert.Equal(t, "Hello, World!", got.AsString())
}

// TestScenario_CountedFloatLoop mirrors test_vm's counter/result/iterations
// trio: a local counter counts up to a fixed iteration count, accumulating
// 3.14 into a local result each pass, with the final value published to a
// global of the same name once the loop condition trips.
func TestScenario_CountedFloatLoop(t *testing.T) {
	const iterations = 4096

	v := New(nil)
	program := []opcodes.Instruction{
		// counter = 0
		opcodes.PushInteger(0),
		opcodes.PushVariable(localRef("counter")),
		opcodes.Assignment(),
		opcodes.Pop(),

		// result = 0.0
		opcodes.PushFloat(0),
		opcodes.PushVariable(localRef("result")),
		opcodes.Assignment(),
		opcodes.Pop(),

		// iterations = 4096
		opcodes.PushInteger(iterations),
		opcodes.PushVariable(localRef("iterations")),
		opcodes.Assignment(),
		opcodes.Pop(),

		opcodes.NOP(), // index 12: loop head

		// result = result + 3.14
		opcodes.PushVariable(localRef("result")),
		opcodes.PushFloat(3.14),
		opcodes.Add(),
		opcodes.PushVariable(localRef("result")),
		opcodes.Assignment(),
		opcodes.Pop(),

		// counter = counter + 1
		opcodes.PushVariable(localRef("counter")),
		opcodes.PushInteger(1),
		opcodes.Add(),
		opcodes.PushVariable(localRef("counter")),
		opcodes.Assignment(),
		opcodes.Pop(),

		// loop while counter < iterations
		opcodes.PushVariable(localRef("iterations")),
		opcodes.PushVariable(localRef("counter")),
		opcodes.GreaterThanOrEqual(),
		opcodes.JumpFalse(opcodes.Absolute(12)),

		// publish result to a global of the same name
		opcodes.PushVariable(localRef("result")),
		opcodes.PushVariable(globalRef("result")),
		opcodes.Assignment(),
	}

	require.NoError(t, v.Interpret(program))

	got, ok := v.globals.get(ident.Hash("result"))
	require.True(t, ok)

	var want float32
	for i := 0; i < iterations; i++ {
		want += 3.14
	}
	assert.Equal(t, want, got.AsFloat())
}

func TestScenario_NativeCallObservesAndMutatesHostState(t *testing.T) {
	type ledger struct{ balance int }
	state := &ledger{balance: 10}
	v := New(state)

	require.NoError(t, v.RegisterNative([]string{"withdraw"}, []string{"amount"}, func(vm *VM, frame *Frame) error {
		amount, err := frame.pop(true)
		if err != nil {
			return err
		}
		vm.AppState().(*ledger).balance -= int(amount.AsInteger())
		return nil
	}))

	require.NoError(t, v.Interpret([]opcodes.Instruction{
		opcodes.PushInteger(4),
		opcodes.CallFunction("withdraw"),
	}))

	assert.Equal(t, 6, state.balance)
}

func TestScenario_MissingVariableYieldsEmptyStringNotAnError(t *testing.T) {
	v := New(nil)
	result, err := v.execFrame(newFrame([]opcodes.Instruction{
		opcodes.PushVariable(globalRef("ghost")),
		opcodes.Return(),
	}))
	require.NoError(t, err)
	assert.Equal(t, values.String(""), result)
}

func TestScenario_IdentifiersAreCaseInsensitive(t *testing.T) {
	v := New(nil)
	require.NoError(t, v.Interpret([]opcodes.Instruction{
		opcodes.PushString("north"),
		opcodes.PushVariable(globalRef("DIRECTION")),
		opcodes.Assignment(),
		opcodes.Pop(),
	}))

	got, ok := v.globals.get(ident.Hash("direction"))
	require.True(t, ok)
	assert.Equal(t, "north", got.AsString())
}
