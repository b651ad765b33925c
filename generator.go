package tsgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const generatorName = "ServiceGenerator"

// ServiceGenerator is the generation engine. It walks the supplied host
// classes, applies the configured policies, resolves every encountered
// type through the assembled processor chain, and stages one TypeScript
// file per emitted interface in an FS.
//
// A generator is stateless across runs; the same instance may drive
// concurrent runs over independent inputs.
type ServiceGenerator struct {
	cfg      *Configuration
	settings *Settings
	log      *zap.Logger
}

// GeneratorOption customizes a ServiceGenerator at construction.
type GeneratorOption func(*ServiceGenerator)

// WithLogger sets the logger used for generation warnings. The default is
// a no-op logger.
func WithLogger(log *zap.Logger) GeneratorOption {
	return func(g *ServiceGenerator) {
		g.log = log
	}
}

// NewServiceGenerator creates a generator driven by the given
// configuration.
func NewServiceGenerator(cfg *Configuration, opts ...GeneratorOption) *ServiceGenerator {
	g := &ServiceGenerator{
		cfg:      cfg,
		settings: cfg.Settings(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one generation pass over the given classes and returns the
// staged output. Classes with methods produce service interfaces; data
// classes are emitted when discovered, transitively, from a service's
// signatures. Ignored classes never produce output and are never
// discovered.
//
// A fault inside a processor, filter, or resolver aborts the run; no
// partial output is returned.
func (g *ServiceGenerator) Generate(classes []Class) (*FS, error) {
	active := make([]Class, 0, len(classes))
	index := make(map[string]Class, len(classes))
	for _, class := range classes {
		if _, skip := g.cfg.ignoredClasses[class.Type.Name]; skip {
			continue
		}
		active = append(active, class)
		index[class.Type.Name] = class
	}

	run := &genRun{
		g:       g,
		index:   index,
		emitted: make(map[string]struct{}),
	}
	ctx := &chainContext{chain: g.settings.CustomTypeProcessor}
	post := g.postprocessors()
	fsys := NewFS()

	services := make([]Class, 0, len(active))
	for _, class := range active {
		if class.IsService() {
			services = append(services, class)
			run.emitted[class.Type.Name] = struct{}{}
		}
	}
	if g.settings.SortDeclarations {
		sort.Slice(services, func(i, j int) bool {
			return services[i].Type.Name < services[j].Type.Name
		})
	}

	for _, svc := range services {
		f, err := run.generateService(svc, ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", svc.Type.Name)
		}
		if err := stage(fsys, post, generatorName, f); err != nil {
			return nil, err
		}
	}

	// Drain the discovery worklist. Each type is emitted at most once, and
	// only when a matching class was supplied as input; the engine does
	// not invent shapes for names it has never seen.
	for len(run.pending) > 0 {
		t := run.pending[0]
		run.pending = run.pending[1:]
		if _, done := run.emitted[t.Name]; done {
			continue
		}
		class, known := run.index[t.Name]
		if !known {
			continue
		}
		run.emitted[t.Name] = struct{}{}

		f, err := run.generateDataType(class, ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", class.Type.Name)
		}
		if err := stage(fsys, post, generatorName, f); err != nil {
			return nil, err
		}
	}

	for _, ext := range g.settings.Extensions {
		fl, err := ext.Generate(active, g.settings)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", ext.ExtensionName())
		}
		if err := fl.Validate(); err != nil {
			return nil, errors.Wrapf(err, "%s returned invalid files", ext.ExtensionName())
		}
		for _, f := range fl {
			if err := stage(fsys, post, ext.ExtensionName(), f); err != nil {
				return nil, err
			}
		}
	}

	return fsys, nil
}

// Write runs Generate and writes the result into the configured generated
// folder location.
func (g *ServiceGenerator) Write(ctx context.Context, classes []Class) error {
	fsys, err := g.Generate(classes)
	if err != nil {
		return err
	}
	return fsys.Write(ctx, g.cfg.folderLocation)
}

// chainContext makes the assembled chain available to processors for
// recursive resolution of nested type arguments.
type chainContext struct {
	chain TypeProcessor
}

func (c *chainContext) Resolve(t Type) (*Result, error) {
	return c.chain.Process(t, c)
}

// genRun is the mutable state of one Generate call.
type genRun struct {
	g       *ServiceGenerator
	index   map[string]Class
	emitted map[string]struct{}
	pending []Type
}

// resolve runs t through the chain. Chain exhaustion yields the engine's
// structural default, "any". Discovered types are queued for generation.
func (r *genRun) resolve(t Type, ctx Context) (TsType, error) {
	res, err := ctx.Resolve(t)
	if err != nil {
		return TsType{}, err
	}
	if res == nil {
		return TsAny, nil
	}
	r.pending = append(r.pending, res.Discovered...)
	return res.Type, nil
}

// renderType renders ts, applying the configured interface prefix to every
// name that refers to a generated class.
func (r *genRun) renderType(ts TsType) string {
	prefix := r.g.settings.AddTypeNamePrefix
	if prefix == "" {
		return ts.String()
	}
	return ts.render(func(name string) string {
		if _, generated := r.index[name]; generated {
			return prefix + name
		}
		return name
	})
}

type namedMethod struct {
	name string
	m    Method
}

func (r *genRun) generateService(class Class, ctx Context) (File, error) {
	kept := make([]Method, 0, len(class.Methods))
	for _, m := range class.Methods {
		if r.g.cfg.methodFilter(class, m) {
			kept = append(kept, m)
		}
	}

	lines := make([]string, 0, len(kept))
	for _, nm := range r.assignOutputNames(class, kept) {
		line, err := r.methodSignature(nm.name, nm.m, ctx)
		if err != nil {
			return File{}, errors.Wrapf(err, "method %s", nm.m.Signature())
		}
		lines = append(lines, line)
	}
	if r.g.settings.SortDeclarations {
		sort.Strings(lines)
	}

	return r.interfaceFile(class.Type.Name, lines), nil
}

func (r *genRun) generateDataType(class Class, ctx Context) (File, error) {
	lines := make([]string, 0, len(class.Fields))
	for _, field := range class.Fields {
		ts, err := r.resolve(field.Type, ctx)
		if err != nil {
			return File{}, errors.Wrapf(err, "field %s", field.Name)
		}
		optional := ts.Opt || hasAnyAnnotation(field.Annotations, r.g.cfg.optionalSet)
		lines = append(lines, fmt.Sprintf("    %s%s: %s;", field.Name, optionalMarker(optional), r.renderType(ts)))
	}
	if r.g.settings.SortDeclarations {
		sort.Strings(lines)
	}

	return r.interfaceFile(class.Type.Name, lines), nil
}

func (r *genRun) interfaceFile(className string, lines []string) File {
	name := r.g.settings.AddTypeNamePrefix + className

	var sb strings.Builder
	fmt.Fprintf(&sb, "export interface %s {\n", name)
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")

	return File{
		RelativePath: name + ".ts",
		Data:         []byte(sb.String()),
		From:         []string{generatorName},
	}
}

// assignOutputNames gives every kept method its output name, running the
// duplicate-name resolver over each collision group. Groups the resolver
// cannot fully disambiguate are either emitted unchanged (when
// EmitDuplicateNames is set) or reduced to their first member with a
// warning.
func (r *genRun) assignOutputNames(class Class, methods []Method) []namedMethod {
	groups := make(map[string][]Method, len(methods))
	order := make([]string, 0, len(methods))
	for _, m := range methods {
		if _, seen := groups[m.Name]; !seen {
			order = append(order, m.Name)
		}
		groups[m.Name] = append(groups[m.Name], m)
	}

	out := make([]namedMethod, 0, len(methods))
	for _, name := range order {
		collisions := groups[name]
		if len(collisions) == 1 {
			out = append(out, namedMethod{name: name, m: collisions[0]})
			continue
		}

		resolved := r.g.cfg.duplicateResolver(collisions)
		if validResolution(collisions, resolved) {
			for i, m := range collisions {
				out = append(out, namedMethod{name: resolved[i], m: m})
			}
			continue
		}

		if r.g.cfg.emitDuplicateNames {
			for _, m := range collisions {
				out = append(out, namedMethod{name: name, m: m})
			}
			continue
		}

		r.g.log.Warn("could not resolve duplicate endpoint names, emitting first only",
			zap.String("class", class.Type.Name),
			zap.String("method", name),
			zap.Int("skipped", len(collisions)-1))
		out = append(out, namedMethod{name: name, m: collisions[0]})
	}
	return out
}

func (r *genRun) methodSignature(name string, m Method, ctx Context) (string, error) {
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if hasAnyAnnotation(p.Annotations, r.g.cfg.ignoredAnnotations) {
			continue
		}
		ts, err := r.resolve(p.Type, ctx)
		if err != nil {
			return "", errors.Wrapf(err, "parameter %s", p.Name)
		}
		optional := ts.Opt || hasAnyAnnotation(p.Annotations, r.g.cfg.optionalSet)
		params = append(params, fmt.Sprintf("%s%s: %s", p.Name, optionalMarker(optional), r.renderType(ts)))
	}

	ret, err := r.resolve(m.Return, ctx)
	if err != nil {
		return "", errors.Wrap(err, "return type")
	}
	wrapped := fmt.Sprintf(r.g.cfg.returnTypeFormat, r.renderType(ret))

	return fmt.Sprintf("    %s(%s): %s;", name, strings.Join(params, ", "), wrapped), nil
}

func optionalMarker(optional bool) string {
	if optional {
		return "?"
	}
	return ""
}

// postprocessors builds the FileMapper pipeline applied to every emitted
// file: namespace wrapping first, then the header, so the header ends up
// above the namespace.
func (g *ServiceGenerator) postprocessors() []FileMapper {
	var post []FileMapper
	if g.settings.OutputKind == OutputModule {
		post = append(post, namespaceMapper(g.cfg.typescriptModule))
	}
	if header := buildHeader(g.cfg.copyrightHeader, g.cfg.generatedMessage); header != "" {
		post = append(post, headerMapper(header))
	}
	return post
}

func namespaceMapper(module string) FileMapper {
	return func(f File) (File, error) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "namespace %s {\n", module)
		for _, line := range strings.Split(strings.TrimRight(string(f.Data), "\n"), "\n") {
			if line == "" {
				sb.WriteByte('\n')
				continue
			}
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteString("}\n")
		f.Data = []byte(sb.String())
		return f, nil
	}
}

func headerMapper(header string) FileMapper {
	return func(f File) (File, error) {
		f.Data = append([]byte(header), f.Data...)
		return f, nil
	}
}

// buildHeader combines the copyright header (verbatim) and the generated
// message (as line comments). Nothing else is ever added to the top of a
// file; the engine itself contributes no banner.
func buildHeader(copyright, message string) string {
	var sb strings.Builder
	if copyright != "" {
		sb.WriteString(copyright)
		if !strings.HasSuffix(copyright, "\n") {
			sb.WriteByte('\n')
		}
	}
	if message != "" {
		for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
			sb.WriteString("// ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	sb.WriteByte('\n')
	return sb.String()
}

func stage(fsys *FS, post []FileMapper, owner string, f File) error {
	if !f.Exists() {
		return nil
	}
	for _, mapper := range post {
		var err error
		f, err = mapper(f)
		if err != nil {
			return errors.Wrapf(err, "postprocessing of %s failed", f.RelativePath)
		}
	}
	return fsys.Add(owner, f)
}
