package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"lienterminal-backend/lib/lien"
	"lienterminal-backend/lib/sources"
)

func TestResolveUnsupportedRegion(t *testing.T) {
	reg := Default()

	_, err := reg.Resolve("TX", ResolveOptions{})

	var cerr *sources.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, "TX", cerr.Region)
	require.Equal(t, reg.Regions(), cerr.Supported)
}

func TestResolvePreferredPlatform(t *testing.T) {
	reg := Default()

	src, err := reg.Resolve("fl", ResolveOptions{
		Source: SourceOptions{SubRegion: "Duval"},
	})
	require.NoError(t, err)
	require.Equal(t, lien.PlatformRealAuction, src.Platform())

	// the preferred platform validates its own construction input
	_, err = reg.Resolve("FL", ResolveOptions{
		Source: SourceOptions{SubRegion: "Nonexistent County"},
	})
	var cerr *sources.ConfigurationError
	require.True(t, errors.As(err, &cerr))
}

func TestResolveManualUploadHintAlwaysWins(t *testing.T) {
	reg := Default()

	// FL prefers live scraping, the upload hint still forces file ingestion
	src, err := reg.Resolve("FL", ResolveOptions{
		PlatformHint: lien.PlatformManualUpload,
		Source:       SourceOptions{Content: []byte("Parcel,Amount Due\n1,$10\n")},
	})
	require.NoError(t, err)
	require.Equal(t, lien.PlatformManualUpload, src.Platform())
}

func TestResolveFallbackHint(t *testing.T) {
	reg := Default()

	// CO prefers RealAuction but advertises Zeus as a fallback
	src, err := reg.Resolve("CO", ResolveOptions{
		PlatformHint: lien.PlatformZeus,
	})
	require.NoError(t, err)
	require.Equal(t, lien.PlatformZeus, src.Platform())
}

func TestResolveUnknownHintFallsBackToPrimary(t *testing.T) {
	reg := Default()

	src, err := reg.Resolve("IL", ResolveOptions{
		PlatformHint: lien.SourcePlatform("SomethingElse"),
		Source:       SourceOptions{Content: []byte("Parcel,Amount Due\n1,$10\n")},
	})
	require.NoError(t, err)
	require.Equal(t, lien.PlatformManualUpload, src.Platform())
}

func TestRegionsOrderAndLookup(t *testing.T) {
	reg := Default()

	codes := reg.Regions()
	require.Len(t, codes, 10)
	require.Contains(t, codes, "FL")
	require.Contains(t, codes, "SC")

	cfg, ok := reg.Region("co")
	require.True(t, ok)
	require.Equal(t, "Colorado", cfg.Name)
	require.Equal(t, lien.PlatformRealAuction, cfg.Primary)

	_, ok = reg.Region("TX")
	require.False(t, ok)
}

func TestAvailablePlatforms(t *testing.T) {
	reg := Default()

	require.Equal(t,
		[]lien.SourcePlatform{lien.PlatformRealAuction, lien.PlatformZeus, lien.PlatformManualUpload},
		reg.AvailablePlatforms("CO"))

	require.Equal(t,
		[]lien.SourcePlatform{lien.PlatformManualUpload},
		reg.AvailablePlatforms("IL"))

	require.Nil(t, reg.AvailablePlatforms("TX"))
}

func TestSubRegionsFor(t *testing.T) {
	reg := Default()

	require.Equal(t, []string{"Duval", "Hillsborough", "Orange"}, reg.SubRegionsFor("FL", ""))
	require.NotEmpty(t, reg.SubRegionsFor("IN", ""))

	// hinting a fallback platform switches the enumeration
	require.NotEmpty(t, reg.SubRegionsFor("CO", lien.PlatformZeus))

	// manual upload regions have no fixed county list
	require.Nil(t, reg.SubRegionsFor("IL", ""))
	require.Nil(t, reg.SubRegionsFor("TX", ""))
}

func TestLiveScrapingAvailable(t *testing.T) {
	reg := Default()

	require.True(t, reg.LiveScrapingAvailable("FL"))
	require.False(t, reg.LiveScrapingAvailable("IL"))
	require.False(t, reg.LiveScrapingAvailable("TX"))
}

func TestCustomRegionTable(t *testing.T) {
	reg := New([]RegionConfig{
		{Code: " fl ", Name: "Florida", Primary: lien.PlatformManualUpload, SupportsUpload: true},
	}, DefaultFactories())

	require.Equal(t, []string{"FL"}, reg.Regions())

	src, err := reg.Resolve("FL", ResolveOptions{
		Source: SourceOptions{Content: []byte("Parcel,Amount Due\n1,$10\n")},
	})
	require.NoError(t, err)
	require.Equal(t, lien.PlatformManualUpload, src.Platform())
}

func TestResolveMissingFactory(t *testing.T) {
	reg := New([]RegionConfig{
		{Code: "FL", Name: "Florida", Primary: lien.PlatformRealAuction},
	}, nil)

	_, err := reg.Resolve("FL", ResolveOptions{})

	var cerr *sources.ConfigurationError
	require.True(t, errors.As(err, &cerr))
}
