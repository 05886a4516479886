package distort

import (
	"context"
	"image"
	"testing"

	"github.com/esimov/distort/imop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Effects(t *testing.T) {
	testCases := []struct {
		spec string
		want any
	}{
		{"identity", Identity{}},
		{"gray", Grayscale{}},
		{"lens", &LensWarp{}},
		{"lens:formula=sign-square,aa=3,policy=clamp", &LensWarp{}},
		{"polar:formula=swirl,empty=#ff000080", &PolarWarp{}},
		{"region:dx=3,dy=-2,box=1:1:20:20", &RegionWarp{}},
		{"globalwave:dw=2,dh=0.1,phase=4", &GlobalWave{}},
		{"local:cx=10,cy=10,tx=14,ty=12,r=6,strategy=sequential", &LocalWarp{}},
		{"wave:v=0.05,h=1,workers=2", &Wave{}},
		{"grid:w=10,h=5,color=#00ff00", &Grid{}},
		{"text:x=4,y=4,text=hello world,color=#ffffff", Text{}},
		{"blur:r=3", Blur{}},
		{"adjust:brightness=0.2,contrast=-0.1", Adjust{}},
		{"composite:op=xor,mode=screen,formula=sine", Composite{}},
	}

	for _, tc := range testCases {
		t.Run(tc.spec, func(t *testing.T) {
			e, err := ParseEffect(tc.spec)
			require.NoError(t, err)
			assert.IsType(t, tc.want, e)
		})
	}
}

func TestParse_Values(t *testing.T) {
	e, err := ParseEffect("lens:formula=flip-x,aa=4,policy=clamp,empty=#010203")
	require.NoError(t, err)
	lw := e.(*LensWarp)
	assert.Equal(t, 4, lw.cfg.antialias)
	assert.Equal(t, Clamp, lw.cfg.policy)
	assert.Equal(t, uint8(1), lw.cfg.empty.R)

	e, err = ParseEffect("wave:v=0.2,h=3,box=1:2:30:40")
	require.NoError(t, err)
	wv := e.(*Wave)
	assert.Equal(t, 0.2, wv.vertical)
	assert.Equal(t, 3.0, wv.horizontal)
	assert.Equal(t, image.Rect(1, 2, 30, 40), wv.cfg.box)

	e, err = ParseEffect("text:text=a b")
	require.NoError(t, err)
	assert.Equal(t, "a b", e.(Text).Text)

	e, err = ParseEffect("composite:op=dst_in")
	require.NoError(t, err)
	assert.Equal(t, imop.DstIn, e.(Composite).Op)
}

func TestParse_Defaults(t *testing.T) {
	p := &Parser{Defaults: []Option{WithAntialias(5), WithWorkers(1)}}

	e, err := p.Parse("lens")
	require.NoError(t, err)
	assert.Equal(t, 5, e.(*LensWarp).cfg.antialias)
	assert.Equal(t, Sequential, e.(*LensWarp).exec.strategy)

	e, err = p.Parse("lens:aa=2")
	require.NoError(t, err)
	assert.Equal(t, 2, e.(*LensWarp).cfg.antialias)
}

func TestParse_Errors(t *testing.T) {
	_, err := ParseEffect("melt")
	assert.ErrorIs(t, err, ErrUnknownEffect)

	for _, spec := range []string{
		"lens:formula=nope",
		"polar:formula=sign-square",
		"lens:aa=0",
		"lens:aa=two",
		"lens:bogus=1",
		"lens:policy=wrap",
		"lens:strategy=gpu",
		"lens:empty=zzz",
		"lens:aa",
		"wave:box=1:2:3",
		"wave:v=abc",
		"local:r=0",
		"grid:w=0",
		"composite:op=plus",
		"composite:mode=dodge",
		"face:dx=4",
	} {
		_, err := ParseEffect(spec)
		assert.Error(t, err, spec)
	}
}

func TestParse_Pipeline(t *testing.T) {
	p, err := ParseEffects([]string{"lens:formula=sine", "wave", "gray"})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())

	out, err := p.Apply(context.Background(), gradient(16, 16))
	require.NoError(t, err)
	assert.IsType(t, &image.Gray{}, out)

	_, err = ParseEffects([]string{"lens", "nope"})
	assert.ErrorIs(t, err, ErrUnknownEffect)

	assert.Contains(t, EffectNames(), "globalwave")
	assert.Contains(t, EffectNames(), "face")
}
