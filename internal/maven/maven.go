// Package maven provides an update checker backed by maven-metadata.xml.
package maven

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/git-pkgs/modmenu/internal/core"
	"github.com/git-pkgs/modmenu/internal/output"
	"github.com/git-pkgs/modmenu/internal/version"
)

const (
	DefaultRepository = "https://repo1.maven.org/maven2"
	kind              = "maven"
)

var errNoVersions = errors.New("metadata lists no versions")

func init() {
	core.Register(kind, func(src core.Source, client *core.Client) (core.Checker, error) {
		repo, group, artifact := src.Repository, "", ""
		if strings.HasPrefix(src.Identifier, "pkg:") {
			var err error
			var purlRepo string
			group, artifact, purlRepo, err = ParsePURL(src.Identifier)
			if err != nil {
				return nil, err
			}
			if repo == "" {
				repo = purlRepo
			}
		} else {
			group, artifact, _ = ParseCoordinates(src.Identifier)
			if group == "" {
				return nil, &core.IdentifierError{Kind: "coordinates", Input: src.Identifier, Reason: "must be 'group:artifact'"}
			}
		}
		if repo == "" {
			repo = DefaultRepository
		}
		return New(src.ModID, repo, group, artifact, WithClient(client), WithTranslator(src.Translator))
	})
}

// URLFunc maps a selected version to the page users are sent to.
type URLFunc func(v string) string

// ChannelFunc classifies a selected version.
type ChannelFunc func(v version.Version, snapshot bool) core.Channel

// Checker reports newer versions of one Maven artifact.
type Checker struct {
	modID      string
	repository string
	groupID    string
	artifactID string
	client     *core.Client
	tr         core.Translator
	urls       *URLs

	versionURL URLFunc
	channel    ChannelFunc
	parse      core.ParseFunc
}

// Option configures a Checker.
type Option func(*Checker)

// WithClient sets the HTTP client.
func WithClient(c *core.Client) Option {
	return func(ch *Checker) {
		if c != nil {
			ch.client = c
		}
	}
}

// WithVersionURL overrides the URL builder for the selected version.
func WithVersionURL(fn URLFunc) Option {
	return func(ch *Checker) {
		ch.versionURL = fn
	}
}

// WithChannelFunc overrides how the selected version is classified.
func WithChannelFunc(fn ChannelFunc) Option {
	return func(ch *Checker) {
		ch.channel = fn
	}
}

// WithVersionParser overrides how metadata versions are parsed.
func WithVersionParser(fn core.ParseFunc) Option {
	return func(ch *Checker) {
		ch.parse = fn
	}
}

// WithTranslator sets the translator used for the update message.
func WithTranslator(tr core.Translator) Option {
	return func(ch *Checker) {
		if tr != nil {
			ch.tr = tr
		}
	}
}

// New creates a checker for the artifact groupID:artifactID hosted in the
// repository at repoURL.
func New(modID, repoURL, groupID, artifactID string, opts ...Option) (*Checker, error) {
	if strings.TrimSpace(modID) == "" {
		return nil, &core.IdentifierError{Kind: "mod id", Input: modID, Reason: "must not be blank"}
	}
	u, err := url.Parse(repoURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &core.IdentifierError{Kind: "repository URL", Input: repoURL, Reason: "must be an absolute URL", Err: err}
	}
	if strings.TrimSpace(groupID) == "" {
		return nil, &core.IdentifierError{Kind: "group id", Input: groupID, Reason: "must not be blank"}
	}
	if strings.TrimSpace(artifactID) == "" {
		return nil, &core.IdentifierError{Kind: "artifact id", Input: artifactID, Reason: "must not be blank"}
	}

	c := &Checker{
		modID:      modID,
		repository: strings.TrimRight(repoURL, "/"),
		groupID:    groupID,
		artifactID: artifactID,
		tr:         core.DefaultTranslator,
		channel: func(_ version.Version, snapshot bool) core.Channel {
			if snapshot {
				return core.Alpha
			}
			return core.Release
		},
		parse: version.Parse,
	}
	c.urls = &URLs{base: c.repository, groupID: groupID, artifactID: artifactID}
	c.versionURL = c.urls.Version
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = core.DefaultClient()
	}
	return c, nil
}

// ParseCoordinates parses "group:artifact" or "group:artifact:version".
// Anything else yields empty strings.
func ParseCoordinates(coords string) (groupID, artifactID, ver string) {
	parts := strings.Split(coords, ":")
	switch len(parts) {
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", ""
		}
		return parts[0], parts[1], ""
	case 3:
		if parts[0] == "" || parts[1] == "" {
			return "", "", ""
		}
		return parts[0], parts[1], parts[2]
	}
	return "", "", ""
}

// ParsePURL parses a maven package URL such as
// pkg:maven/org.example/lib?repository_url=https://maven.example.com.
// repoURL is empty when the PURL carries no repository_url qualifier.
func ParsePURL(s string) (groupID, artifactID, repoURL string, err error) {
	p, err := packageurl.FromString(s)
	if err != nil {
		return "", "", "", &core.IdentifierError{Kind: "purl", Input: s, Reason: "malformed package URL", Err: err}
	}
	if p.Type != packageurl.TypeMaven {
		return "", "", "", &core.IdentifierError{Kind: "purl", Input: s, Reason: fmt.Sprintf("type %q is not maven", p.Type)}
	}
	if p.Namespace == "" || p.Name == "" {
		return "", "", "", &core.IdentifierError{Kind: "purl", Input: s, Reason: "must name both group and artifact"}
	}
	return p.Namespace, p.Name, p.Qualifiers.Map()["repository_url"], nil
}

// GroupID returns the artifact group.
func (c *Checker) GroupID() string { return c.groupID }

// ArtifactID returns the artifact name.
func (c *Checker) ArtifactID() string { return c.artifactID }

// URLs returns the URL builder for this artifact.
func (c *Checker) URLs() *URLs { return c.urls }

// PURL returns the package URL identifying the artifact.
func (c *Checker) PURL() string {
	var qualifiers packageurl.Qualifiers
	if c.repository != DefaultRepository {
		qualifiers = packageurl.QualifiersFromMap(map[string]string{"repository_url": c.repository})
	}
	return packageurl.NewPackageURL(packageurl.TypeMaven, c.groupID, c.artifactID, "", qualifiers, "").ToString()
}

// IsSnapshot reports whether v names a snapshot build.
func IsSnapshot(v string) bool {
	return strings.Contains(strings.ToUpper(v), "SNAPSHOT")
}

// CheckForUpdates implements core.Checker.
func (c *Checker) CheckForUpdates(ctx context.Context, current string, pref core.Channel) (*core.UpdateInfo, error) {
	if current == "" {
		output.Info("skipping update check, mod is not loaded", "mod", c.modID)
		return nil, nil
	}

	body, err := c.client.GetBody(ctx, c.urls.Metadata())
	if err != nil {
		return nil, core.NewCheckError(c.modID, "fetching metadata", err)
	}
	versions, err := metadataVersions(body)
	if err != nil {
		return nil, core.NewCheckError(c.modID, "parsing metadata", err)
	}
	if len(versions) == 0 {
		return nil, core.NewCheckError(c.modID, "parsing metadata", errNoVersions)
	}

	candidates := make([]string, 0, len(versions))
	for _, v := range versions {
		if pref.Excludes(IsSnapshot(v)) {
			continue
		}
		candidates = append(candidates, v)
	}

	latest, latestVersion, found := core.SelectLatest(candidates, c.parse, func(raw string, err error) {
		output.Warn("skipping unparseable version", "mod", c.modID, "version", raw, "err", err)
	})
	if !found {
		return nil, nil
	}

	newer, err := core.IsNewer(latestVersion, current)
	if err != nil {
		return nil, core.NewCheckError(c.modID, "parsing installed version", err)
	}
	if !newer {
		return nil, nil
	}

	return core.NewUpdateInfo(c.tr, c.versionURL(latest), latestVersion.String(),
		c.channel(latestVersion, IsSnapshot(latest))), nil
}

// metadataVersions returns the text of every <version> element in the
// document, in document order.
func metadataVersions(body []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var versions []string
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "version" {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, err
		}
		if text = strings.TrimSpace(text); text != "" {
			versions = append(versions, text)
		}
	}
	if !sawRoot {
		return nil, errors.New("document has no root element")
	}
	return versions, nil
}

// URLs builds repository URLs for an artifact.
type URLs struct {
	base       string
	groupID    string
	artifactID string
}

func (u *URLs) artifactPath() string {
	return fmt.Sprintf("%s/%s/%s", u.base, strings.ReplaceAll(u.groupID, ".", "/"), u.artifactID)
}

// Metadata returns the maven-metadata.xml URL.
func (u *URLs) Metadata() string {
	return u.artifactPath() + "/maven-metadata.xml"
}

// Version returns the directory URL of version v.
func (u *URLs) Version(v string) string {
	return u.artifactPath() + "/" + v
}
