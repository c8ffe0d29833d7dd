package chronohash

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/zeebo/assert"
	"github.com/zeebo/pcg"
)

var vectors = []struct {
	input        string
	normal, fast string
}{
	{"", "547462ef422a053d746bff0b0ea08187b4c98c258986269d51ed07c95f519364",
		"0991de18216ce6b0633d3913e04117aded86f8ef2cd0a8f561e7a69fa97f66ff"},
	{"a", "8b7fb3334eac40d87cc7d4e17df1a79b88d303a1f052fd1a4a698c8f3e1c279d",
		"2001b22123b81549850fc387b6c81c3a3514af59665b3398112da1b248ce3533"},
	{"abc", "b7b3af3fe0e52b9a4f4499ee77d04eb78af35d451e4e1243625ee37da2f8a21e",
		"afd45245dd3f4f86ec3cb12612fee5376c2e4cf97e396b6ed8ca49adec75cd32"},
	{"test", "ae8ff272822c83f050afcd012465c70ca4f33d60245ae58adb0020e73495699c",
		"3cc665eb7e2903b05aed39bd5cac5d118d968560cce4a005ae2e653bd565d0c4"},
	{"test2", "bd213bc87e9a4c6ee0e49e657c7a6fb959cacb33b782a252df92e3fb4695f071",
		"736fff5c4697e99eb623a428e0a769c9fbd94af1d0111c5ed160baa94951bffd"},
	{"0123456789", "d19a9ec18d0e8becc8f6eb5420e3c7d34cd85d8e5464c31003b568673f4d404f",
		"6d70293a5056731ca039341d60aac06b5705a4caa29cf1cbb0afdc4f71cd5bb4"},
	{"message digest", "07d0d9ffc7da1fc8b4f701851eb3be8e560f065e3d1972fd4f6b770901ee4272",
		"533e779cad7edfafecc1f4f188552b63baa1b9cda89f357d8c62e09ad9d1a719"},
	{"Hello, World!", "6d512e105e9569557d22ba5ce1142260fc41cfadbd5e6fd29a47a31f42c61ebf",
		"683d4f793cee960f74eedf74c4849d5cbe4b0b8a7a2c138ade23cf4e0f4966ab"},
	{"The quick brown fox jumps over the lazy dog",
		"105b27b6cc332fe4744be198dca4b5d3ef96398cbcf0e8cf574d8cf8bf0fbf32",
		"07cf4770e808039a92cea5212a4cd426c8ed4f478892edaed8baede61019abfc"},
	{strings.Repeat("x", 1000), "a8c85b27cb64d5cac4a977ae6c50c56b935f3c27e381e078491317c44b37b979",
		"820a0f276fbdd4bbc44da9d0b0d6a3ff8a5cca8183429b48a98a6947ced35b58"},
	{string(allBytes()), "f734e40b010074829ca8f286c9668fbab96c75c92033907a10a52cafcee34f28",
		"75115760ee89eccceb3783998c11659a119e990bf0efbd4e56f1eaa545f295a4"},
}

func allBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func randBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(pcg.Uint32())
	}
	return b
}

func TestHash_Vectors(t *testing.T) {
	for _, tv := range vectors {
		in := []byte(tv.input)
		assert.Equal(t, NewHasher(Normal).HashHex(in), tv.normal)
		assert.Equal(t, NewHasher(Fast).HashHex(in), tv.fast)

		n, f := HashNormal(in), HashFast(in)
		assert.Equal(t, hex.EncodeToString(n[:]), tv.normal)
		assert.Equal(t, hex.EncodeToString(f[:]), tv.fast)
	}
}

func TestHash_Empty(t *testing.T) {
	for _, m := range []Mode{Normal, Fast} {
		h := NewHasher(m)
		assert.Equal(t, h.Hash(nil), h.Hash([]byte{}))
		assert.Equal(t, h.Hash(nil), h.Hash(nil))
	}
}

func TestHash_Deterministic(t *testing.T) {
	for i := 0; i < 64; i++ {
		msg := randBytes(int(pcg.Uint32() % (4 << 10)))
		for _, m := range []Mode{Normal, Fast} {
			h := NewHasher(m)
			first := h.Hash(msg)
			assert.Equal(t, len(first), Size)
			assert.Equal(t, first, h.Hash(append([]byte(nil), msg...)))
		}
	}
}

func TestHash_DoesNotModifyInput(t *testing.T) {
	msg := randBytes(200)
	orig := append([]byte(nil), msg...)
	HashNormal(msg)
	HashFast(msg)
	assert.Equal(t, string(msg), string(orig))
}

func TestHash_HexFormat(t *testing.T) {
	s := NewHasher(Normal).HashHex([]byte("format"))
	assert.Equal(t, len(s), 2*Size)
	assert.Equal(t, s, strings.ToLower(s))
	sum := HashNormal([]byte("format"))
	assert.Equal(t, s[:2], hex.EncodeToString(sum[:1]))
}

func TestHash_ModeSeparation(t *testing.T) {
	same := 0
	for i := 0; i < 256; i++ {
		msg := randBytes(i)
		if HashFast(msg) == HashNormal(msg) {
			same++
		}
	}
	assert.Equal(t, same, 0)
	assert.That(t, HashFast([]byte("test")) != HashNormal([]byte("test")))
}

func TestHash_Sensitivity(t *testing.T) {
	assert.That(t, HashNormal([]byte("test")) != HashNormal([]byte("test2")))

	msg := randBytes(300)
	base := HashNormal(msg)
	for i := range msg {
		mod := append([]byte(nil), msg...)
		mod[i] ^= byte(1 + pcg.Uint32()%255)
		assert.That(t, HashNormal(mod) != base)
	}
}

// Fast mode reads words r through r+7 in round r, so word 15 of every block (bytes 60 to 63) never
// reaches the state.
func TestHashFast_UnreadWord(t *testing.T) {
	msg := randBytes(300)
	base := HashFast(msg)
	for i := range msg {
		mod := append([]byte(nil), msg...)
		mod[i] ^= byte(1 + pcg.Uint32()%255)
		if i%BlockSize >= BlockSize-4 {
			assert.Equal(t, HashFast(mod), base)
		} else {
			assert.That(t, HashFast(mod) != base)
		}
	}
}

func TestHash_Concurrent(t *testing.T) {
	h := NewHasher(Normal)
	msgs := make([][]byte, 32)
	want := make([][Size]byte, len(msgs))
	for i := range msgs {
		msgs[i] = randBytes(i * 37)
		want[i] = h.Hash(msgs[i])
	}

	var wg sync.WaitGroup
	got := make([][Size]byte, len(msgs))
	for i := range msgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = h.Hash(msgs[i])
		}(i)
	}
	wg.Wait()
	for i := range msgs {
		assert.Equal(t, got[i], want[i])
	}
}

func TestRounds(t *testing.T) {
	normal, fast := NewHasher(Normal), NewHasher(Fast)

	t.Run("Boundaries", func(t *testing.T) {
		assert.Equal(t, normal.Rounds(nil), 20)
		assert.Equal(t, normal.Rounds([]byte("abc")), 20)
		assert.Equal(t, normal.Rounds(allBytes()), 32)
		assert.Equal(t, normal.Rounds(append(allBytes(), allBytes()...)), 32)
	})

	t.Run("Fast", func(t *testing.T) {
		for _, msg := range [][]byte{nil, {0}, allBytes(), randBytes(5000)} {
			assert.Equal(t, fast.Rounds(msg), 8)
		}
	})

	t.Run("Diversity", func(t *testing.T) {
		prev := normal.Rounds(nil)
		for u := 1; u <= 256; u++ {
			msg := allBytes()[:u]
			got := normal.Rounds(msg)
			assert.Equal(t, got, 20+3*u/64)
			assert.That(t, got >= prev && got >= 20 && got <= 32)
			prev = got
		}
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		msg := []byte("the order of bytes does not matter")
		rev := make([]byte, len(msg))
		for i := range msg {
			rev[len(msg)-1-i] = msg[i]
		}
		assert.Equal(t, normal.Rounds(msg), normal.Rounds(rev))
		assert.Equal(t, normal.Rounds(msg), normal.Rounds(append(msg, msg...)))
	})
}

func TestPad(t *testing.T) {
	for n := 0; n < 300; n++ {
		msg := randBytes(n)
		padded := pad(msg)

		assert.That(t, len(padded) > n)
		assert.Equal(t, len(padded)%BlockSize, 0)
		assert.Equal(t, len(padded), (n+9+63)/64*64)
		assert.Equal(t, string(padded[:n]), string(msg))
		assert.Equal(t, padded[n], byte(0x80))
		for _, b := range padded[n+1 : len(padded)-8] {
			assert.Equal(t, b, byte(0))
		}
		assert.Equal(t, binary.BigEndian.Uint64(padded[len(padded)-8:]), uint64(n)*8)
	}

	assert.Equal(t, len(pad(make([]byte, 55))), 64)
	assert.Equal(t, len(pad(make([]byte, 56))), 128)
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{
		"normal": Normal, "N": Normal, " Fast ": Fast, "f": Fast,
	} {
		got, err := ParseMode(name)
		assert.NoError(t, err)
		assert.Equal(t, got, want)
	}

	_, err := ParseMode("slow")
	assert.Error(t, err)
	assert.Equal(t, errors.Cause(err), ErrInvalidMode)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, Normal.String(), "normal")
	assert.Equal(t, Fast.String(), "fast")
	assert.Equal(t, Mode(7).String(), "Mode(7)")
	assert.Equal(t, Hasher{}.Mode(), Normal)
}

func TestNewHasher_Panics(t *testing.T) {
	defer func() { assert.That(t, recover() != nil) }()
	NewHasher(Mode(2))
}
