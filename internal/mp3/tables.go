package mp3

// Bitrates in kbps indexed by [version class][layer-1][code-1]. Version
// class 0 is MPEG-1, class 1 is MPEG-2 and MPEG-2.5.
var bitrates = [2][3][14]int{
	{
		{32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		{32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	},
	{
		{32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	},
}

// Sample rates in Hz indexed by [version class][code]. MPEG-2.5 uses half
// of the MPEG-2 rates.
var sampleRates = [2][3]int{
	{44100, 48000, 32000},
	{22050, 24000, 16000},
}

// Side information sizes in bytes indexed by [version class][mono].
var sideInfoSizes = [2][2]int{
	{32, 17},
	{17, 9},
}

// frameLengthFactors holds the (multiplier, slot size) pair used by
// FrameLength, indexed by [version class][layer is I ? 0 : 1].
var frameLengthFactors = [2][2][2]int{
	{{12, 4}, {144, 1}},
	{{240, 4}, {72, 1}},
}
