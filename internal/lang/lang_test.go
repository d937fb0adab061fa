package lang

import "testing"

func TestGet(t *testing.T) {
	for _, name := range []string{"javascript", "typescript", "go", "python", "rust", "java"} {
		spec := Get(name)
		if spec == nil {
			t.Fatalf("Get(%q) = nil", name)
		}
		if spec.Name != name {
			t.Errorf("Get(%q).Name = %q", name, spec.Name)
		}
		if spec.Query == "" {
			t.Errorf("%s has an empty query", name)
		}
	}
	if Get("ruby") != nil {
		t.Error("Unsupported language should return nil")
	}
}

func TestIsAccessor(t *testing.T) {
	js := Get("javascript")
	if !js.IsAccessor("process.env", nil) {
		t.Error("process.env should be an accessor")
	}
	if !js.IsAccessor("import.meta.env", nil) {
		t.Error("import.meta.env should be an accessor")
	}
	if js.IsAccessor("window.env", nil) {
		t.Error("window.env is not an accessor")
	}
	if !js.IsAccessor("window.env", []string{"window.env"}) {
		t.Error("Profile accessors should extend the builtin list")
	}
}

func TestIsCallAccessor(t *testing.T) {
	goSpec := Get("go")
	if !goSpec.IsCallAccessor("os.Getenv") {
		t.Error("os.Getenv should be a call accessor")
	}
	if !goSpec.IsCallAccessor("os.LookupEnv") {
		t.Error("os.LookupEnv should be a call accessor")
	}
	if goSpec.IsCallAccessor("fmt.Sprintf") {
		t.Error("fmt.Sprintf is not a call accessor")
	}

	rust := Get("rust")
	for _, fn := range []string{"std::env::var", "env::var", "env::var_os"} {
		if !rust.IsCallAccessor(fn) {
			t.Errorf("%s should be a call accessor", fn)
		}
	}
}

func TestWrapperCallTypes(t *testing.T) {
	js := Get("javascript")
	if js.WrapperCalls["parseInt"] != "number" {
		t.Errorf("parseInt implies number, got %s", js.WrapperCalls["parseInt"])
	}
	if js.WrapperCalls["JSON.parse"] != "json" {
		t.Errorf("JSON.parse implies json, got %s", js.WrapperCalls["JSON.parse"])
	}

	java := Get("java")
	if java.WrapperCalls["Boolean.parseBoolean"] != "boolean" {
		t.Errorf("Boolean.parseBoolean implies boolean, got %s", java.WrapperCalls["Boolean.parseBoolean"])
	}
}
