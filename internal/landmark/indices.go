package landmark

import "sort"

// Face mesh indices used by this module. Names are subject-relative.
const (
	NoseTip     = 1
	Subnasale   = 2
	NoseBridge  = 6
	Glabella    = 9
	ForeheadTop = 10
	Nasion      = 168
	Chin        = 152

	RightEyeOuter = 33
	RightEyeInner = 133
	RightEyeUpper = 159
	RightEyeLower = 145
	LeftEyeOuter  = 263
	LeftEyeInner  = 362
	LeftEyeUpper  = 386
	LeftEyeLower  = 374

	RightBrowInner      = 107
	RightBrowPeak       = 105
	RightBrowOuter      = 70
	RightBrowInnerLower = 55
	RightBrowPeakLower  = 52
	RightBrowOuterLower = 46
	LeftBrowInner       = 336
	LeftBrowPeak        = 334
	LeftBrowOuter       = 300
	LeftBrowInnerLower  = 285
	LeftBrowPeakLower   = 282
	LeftBrowOuterLower  = 276

	RightAlar    = 129
	LeftAlar     = 358
	RightNostril = 98
	LeftNostril  = 327

	MouthRight     = 61
	MouthLeft      = 291
	UpperLipTop    = 0
	UpperLipInner  = 13
	LowerLipInner  = 14
	LowerLipBottom = 17
	RightCupidPeak = 37
	LeftCupidPeak  = 267

	RightCheek     = 234
	LeftCheek      = 454
	RightJawAngle  = 172
	LeftJawAngle   = 397
	RightJawMid    = 136
	LeftJawMid     = 365
	RightChinSide  = 149
	LeftChinSide   = 378
	RightTemple    = 54
	LeftTemple     = 284
)

var names = map[int]string{
	NoseTip:     "nose tip",
	Subnasale:   "subnasale",
	NoseBridge:  "nose bridge",
	Glabella:    "glabella",
	ForeheadTop: "forehead top",
	Nasion:      "nasion",
	Chin:        "chin",

	RightEyeOuter: "right eye outer corner",
	RightEyeInner: "right eye inner corner",
	RightEyeUpper: "right upper eyelid",
	RightEyeLower: "right lower eyelid",
	LeftEyeOuter:  "left eye outer corner",
	LeftEyeInner:  "left eye inner corner",
	LeftEyeUpper:  "left upper eyelid",
	LeftEyeLower:  "left lower eyelid",

	RightBrowInner:      "right brow inner",
	RightBrowPeak:       "right brow peak",
	RightBrowOuter:      "right brow outer",
	RightBrowInnerLower: "right brow inner lower edge",
	RightBrowPeakLower:  "right brow peak lower edge",
	RightBrowOuterLower: "right brow outer lower edge",
	LeftBrowInner:       "left brow inner",
	LeftBrowPeak:        "left brow peak",
	LeftBrowOuter:       "left brow outer",
	LeftBrowInnerLower:  "left brow inner lower edge",
	LeftBrowPeakLower:   "left brow peak lower edge",
	LeftBrowOuterLower:  "left brow outer lower edge",

	RightAlar:    "right alar",
	LeftAlar:     "left alar",
	RightNostril: "right nostril",
	LeftNostril:  "left nostril",

	MouthRight:     "right mouth corner",
	MouthLeft:      "left mouth corner",
	UpperLipTop:    "upper lip top",
	UpperLipInner:  "upper lip inner",
	LowerLipInner:  "lower lip inner",
	LowerLipBottom: "lower lip bottom",
	RightCupidPeak: "right cupid's bow peak",
	LeftCupidPeak:  "left cupid's bow peak",

	RightCheek:    "right cheek",
	LeftCheek:     "left cheek",
	RightJawAngle: "right jaw angle",
	LeftJawAngle:  "left jaw angle",
	RightJawMid:   "right jaw mid",
	LeftJawMid:    "left jaw mid",
	RightChinSide: "right chin side",
	LeftChinSide:  "left chin side",
	RightTemple:   "right temple",
	LeftTemple:    "left temple",
}

// Name returns the human name of a named index, or "" for other indices.
func Name(index int) string {
	return names[index]
}

// Pairs maps each subject-right index to its subject-left counterpart.
var Pairs = map[int]int{
	RightEyeOuter:       LeftEyeOuter,
	RightEyeInner:       LeftEyeInner,
	RightEyeUpper:       LeftEyeUpper,
	RightEyeLower:       LeftEyeLower,
	RightBrowInner:      LeftBrowInner,
	RightBrowPeak:       LeftBrowPeak,
	RightBrowOuter:      LeftBrowOuter,
	RightBrowInnerLower: LeftBrowInnerLower,
	RightBrowPeakLower:  LeftBrowPeakLower,
	RightBrowOuterLower: LeftBrowOuterLower,
	RightAlar:           LeftAlar,
	RightNostril:        LeftNostril,
	MouthRight:          MouthLeft,
	RightCupidPeak:      LeftCupidPeak,
	RightCheek:          LeftCheek,
	RightJawAngle:       LeftJawAngle,
	RightJawMid:         LeftJawMid,
	RightChinSide:       LeftChinSide,
	RightTemple:         LeftTemple,
}

// Counterpart returns the mirror index of a paired landmark. Midline and
// unpaired indices map to themselves.
func Counterpart(index int) int {
	if l, ok := Pairs[index]; ok {
		return l
	}
	for r, l := range Pairs {
		if l == index {
			return r
		}
	}
	return index
}

// RelevantIndices returns every named index in ascending order. These are
// the points region calculators consume, so variance and confidence are
// computed over them rather than the whole mesh.
func RelevantIndices() []int {
	out := make([]int, 0, len(names))
	for idx := range names {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
