package life

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		name string
		text string
		want string // expected String(); empty means an error is expected
		err  error
	}{
		{
			name: "Blinker",
			text: "000\n111\n000\n",
			want: "000\n111\n000",
		},
		{
			name: "WhitespaceAndBlankLines",
			text: "\n  010  \n\n010\n\t010\n\n",
			want: "010\n010\n010",
		},
		{
			name: "SingleCell",
			text: "1",
			want: "1",
		},
		{
			name: "BadCharacter",
			text: "010\n0x0\n",
			err:  ErrParse,
		},
		{
			name: "RaggedRows",
			text: "010\n01\n",
			err:  ErrParse,
		},
		{
			name: "Empty",
			text: "\n\n",
			err:  ErrParse,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(strings.NewReader(tt.text))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.String())
		})
	}
}

func TestParseBoundary(t *testing.T) {
	for name, want := range map[string]Boundary{
		"dead": Dead, "Wrap": Wrap, " MIRROR ": Mirror,
	} {
		got, err := ParseBoundary(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseBoundary("toroidal")
	assert.Error(t, err)
}

func TestStepBlinkerOscillates(t *testing.T) {
	horizontal := MustParse("000\n111\n000")
	vertical := MustParse("010\n010\n010")

	assert.True(t, horizontal.Step(Dead).Equal(vertical))
	assert.True(t, vertical.Step(Dead).Equal(horizontal))
	assert.True(t, horizontal.Step(Dead).Step(Dead).Equal(horizontal))
}

func TestStepBlockIsStill(t *testing.T) {
	block := MustParse("0000\n0110\n0110\n0000")
	for _, b := range []Boundary{Dead, Wrap, Mirror} {
		assert.True(t, block.Step(b).Equal(block), "boundary %s", b)
	}
}

func TestStepLonelyCellDies(t *testing.T) {
	g := MustParse("000\n010\n000")
	dead := MustParse("000\n000\n000")
	for _, b := range []Boundary{Dead, Wrap, Mirror} {
		assert.True(t, g.Step(b).Equal(dead), "boundary %s", b)
	}
}

// On a 2×2 torus every neighbor offset folds onto the other three cells
// with multiplicity: each live cell sees eight live neighbors and the
// colony collapses.
func TestStepWrapCountsWithMultiplicity(t *testing.T) {
	g := MustParse("11\n11")
	assert.True(t, g.Step(Wrap).Equal(MustParse("00\n00")))
	// Under Dead the same square is the still-life block.
	assert.True(t, g.Step(Dead).Equal(g))
}

// A full 1×3 column under Mirror: reflected offsets pile onto the column
// itself, so every cell counts eight live neighbors and dies.
func TestStepMirrorReflectsOntoSelf(t *testing.T) {
	g := MustParse("1\n1\n1")
	assert.True(t, g.Step(Mirror).Equal(MustParse("0\n0\n0")))
}

func TestNeighbors(t *testing.T) {
	// Corner cell of a 3×3 grid.
	dead := Neighbors(3, 3, 0, 0, Dead, nil)
	assert.Len(t, dead, 3)
	assert.ElementsMatch(t, [][2]int{{1, 0}, {0, 1}, {1, 1}}, dead)

	wrap := Neighbors(3, 3, 0, 0, Wrap, nil)
	assert.Len(t, wrap, 8)
	assert.Contains(t, wrap, [2]int{2, 2})

	mirror := Neighbors(3, 3, 0, 0, Mirror, nil)
	assert.Len(t, mirror, 8)
	// The (-1,-1) offset reflects onto the corner itself.
	assert.Contains(t, mirror, [2]int{0, 0})
}

func TestFromRowsErrors(t *testing.T) {
	_, err := FromRows(nil)
	assert.ErrorIs(t, err, ErrEmptyGrid)
	_, err = FromRows([][]uint8{{0, 1}, {0}})
	assert.ErrorIs(t, err, ErrNonRectangular)
	_, err = FromRows([][]uint8{{0, 2}})
	assert.ErrorIs(t, err, ErrCellValue)
}

func TestFromDense(t *testing.T) {
	g, err := FromDense(2, 2, []uint8{1, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, "10\n01", g.String())
	assert.Equal(t, 2, g.Population())

	_, err = FromDense(2, 2, []uint8{1, 0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = FromDense(0, 2, nil)
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestDiff(t *testing.T) {
	a := MustParse("010\n010")
	b := MustParse("010\n011")
	x, y, same, err := Diff(a, b)
	require.NoError(t, err)
	assert.False(t, same)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)

	_, _, same, err = Diff(a, a)
	require.NoError(t, err)
	assert.True(t, same)

	_, _, _, err = Diff(a, MustParse("010"))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestImmutability(t *testing.T) {
	rows := [][]uint8{{1, 1}, {1, 1}}
	g, err := FromRows(rows)
	require.NoError(t, err)
	rows[0][0] = 0
	assert.Equal(t, uint8(1), g.Get(0, 0))

	// Step must not touch the receiver.
	g2 := g.Step(Wrap)
	assert.Equal(t, "11\n11", g.String())
	assert.NotEqual(t, g.String(), g2.String())
}
