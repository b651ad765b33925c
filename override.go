package tsgen

// OverrideProcessor returns the built-in processor handling the two host
// types with fixed translations:
//
//   - Optional<T> resolves T through the context and, on success, returns
//     T's result marked optional with the discovered set propagated
//     unchanged. If T itself fails to resolve, the processor declines
//     rather than inventing a fallback, leaving the type to later links.
//   - URI maps to the TypeScript string primitive with nothing discovered.
//
// Everything else is declined. The processor sits after the user's custom
// processor in the assembled chain, so either case can be intercepted.
func OverrideProcessor() TypeProcessor {
	return ProcessorFunc("optional-uri-override", func(t Type, ctx Context) (*Result, error) {
		if t.IsOptional() {
			inner, err := ctx.Resolve(t.Args[0])
			if err != nil {
				return nil, err
			}
			if inner == nil {
				return nil, nil
			}
			return &Result{Type: inner.Type.Optional(), Discovered: inner.Discovered}, nil
		}

		if t.Name == URITypeName && !t.IsParameterized() {
			return &Result{Type: TsString}, nil
		}

		return nil, nil
	})
}
